package certificate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/cache"
	"lms/logger"
	"lms/models/course"
)

type fakeLookup struct {
	calls int
	resp  *course.CertificateVerification
	err   error
}

func (f *fakeLookup) VerifyCertificate(_ context.Context, _ string) (*course.CertificateVerification, error) {
	f.calls++
	return f.resp, f.err
}

func newVerifier(l Lookup) *Verifier {
	return NewVerifier(l, cache.NewMemoryCache(), logger.Nop())
}

func TestDemoCodeIgnoresBackend(t *testing.T) {
	lookup := &fakeLookup{resp: &course.CertificateVerification{Valid: false, NotFound: true}}
	v := newVerifier(lookup)

	res := v.Verify(context.Background(), "MDSC-23974999-BJ")
	assert.Equal(t, StateValid, res.State)
	assert.True(t, res.Demo)
	require.NotNil(t, res.Certificate)
	assert.Equal(t, DemoCode, res.Certificate.CertificateCode)
	assert.Equal(t, 0, lookup.calls)
}

func TestDemoCodeMatchesExactly(t *testing.T) {
	lookup := &fakeLookup{resp: &course.CertificateVerification{NotFound: true}}
	v := newVerifier(lookup)

	res := v.Verify(context.Background(), "mdsc-23974999-bj")
	assert.Equal(t, StateInvalid, res.State)
	assert.Equal(t, ReasonNotFound, res.Reason)
	assert.False(t, res.Demo)
	assert.Equal(t, 1, lookup.calls)
}

func TestVerifyOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		resp    *course.CertificateVerification
		err     error
		state   State
		reason  Reason
		message string
	}{
		{
			name:  "valid",
			resp:  &course.CertificateVerification{Valid: true, Certificate: &course.Certificate{ID: "c1"}},
			state: StateValid,
		},
		{
			name:    "not found",
			resp:    &course.CertificateVerification{NotFound: true},
			state:   StateInvalid,
			reason:  ReasonNotFound,
			message: msgNotFound,
		},
		{
			name:    "expired with backend message",
			resp:    &course.CertificateVerification{Message: "Certificate expired"},
			state:   StateInvalid,
			reason:  ReasonInvalid,
			message: "Certificate expired",
		},
		{
			name:    "invalid without detail",
			resp:    &course.CertificateVerification{},
			state:   StateInvalid,
			reason:  ReasonInvalid,
			message: msgInvalid,
		},
		{
			name:    "network failure",
			err:     errors.New("connection refused"),
			state:   StateInvalid,
			reason:  ReasonUnavailable,
			message: msgUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newVerifier(&fakeLookup{resp: tt.resp, err: tt.err})
			res := v.Verify(context.Background(), " ABC-1 ")
			assert.Equal(t, tt.state, res.State)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Equal(t, "ABC-1", res.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, res.Message)
			}
		})
	}
}

func TestOnlyValidResultsAreCached(t *testing.T) {
	lookup := &fakeLookup{resp: &course.CertificateVerification{NotFound: true}}
	v := newVerifier(lookup)
	ctx := context.Background()

	v.Verify(ctx, "ABC-1")
	v.Verify(ctx, "ABC-1")
	assert.Equal(t, 2, lookup.calls)

	lookup.resp = &course.CertificateVerification{Valid: true}
	v.Verify(ctx, "ABC-1")
	res := v.Verify(ctx, "ABC-1")
	assert.Equal(t, 3, lookup.calls)
	assert.Equal(t, StateValid, res.State)
}

func TestEmptyCodeSkipsLookup(t *testing.T) {
	lookup := &fakeLookup{}
	res := newVerifier(lookup).Verify(context.Background(), "   ")
	assert.Equal(t, StateInvalid, res.State)
	assert.Equal(t, 0, lookup.calls)
}

func TestFlowIsTerminal(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("timeout")}
	v := newVerifier(lookup)
	f := NewFlow("ABC-1")
	assert.Equal(t, StateLoading, f.State())

	first := f.Run(context.Background(), v)
	assert.Equal(t, StateInvalid, f.State())

	lookup.err = nil
	lookup.resp = &course.CertificateVerification{Valid: true}
	second := f.Run(context.Background(), v)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, lookup.calls)
}
