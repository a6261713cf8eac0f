package certificate

import (
	"context"
	"strings"
	"time"

	"lms/cache"
	"lms/logger"
	"lms/models/course"
)

// DemoCode always verifies as a valid demo certificate, whatever the backend
// says. It bypasses verification and is logged on every use.
const DemoCode = "MDSC-23974999-BJ"

type State string

const (
	StateLoading State = "loading"
	StateValid   State = "valid"
	StateInvalid State = "invalid"
)

type Reason string

const (
	ReasonNotFound    Reason = "not_found"
	ReasonInvalid     Reason = "invalid"
	ReasonUnavailable Reason = "unavailable"
)

const (
	msgNotFound    = "Certificate not found. Please check the code and try again."
	msgInvalid     = "This certificate is invalid or has expired."
	msgUnavailable = "Certificate verification is unavailable right now. Please try again later."
	msgRequired    = "Certificate code is required!"
	msgValid       = "Certificate is valid."
)

// Lookup verifies a code against the backend.
type Lookup interface {
	VerifyCertificate(ctx context.Context, code string) (*course.CertificateVerification, error)
}

// Result is the outcome of one verification.
type Result struct {
	State       State               `json:"state"`
	Code        string              `json:"code"`
	Reason      Reason              `json:"reason,omitempty"`
	Message     string              `json:"message"`
	Certificate *course.Certificate `json:"certificate,omitempty"`
	Demo        bool                `json:"demo,omitempty"`
}

type Verifier struct {
	lookup Lookup
	cache  cache.Cache
	log    *logger.Logger
	ttl    time.Duration
}

func NewVerifier(lookup Lookup, c cache.Cache, log *logger.Logger) *Verifier {
	return &Verifier{
		lookup: lookup,
		cache:  c,
		log:    log.With("component", "certificate.Verifier"),
		ttl:    10 * time.Minute,
	}
}

func cacheKey(code string) string {
	return "certificate:verify:" + code
}

func demoCertificate() *course.Certificate {
	return &course.Certificate{
		ID:              "demo",
		CertificateCode: DemoCode,
		HolderName:      "Demo Student",
		CourseTitle:     "Demo Course",
		IssuedAt:        time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		Verified:        true,
	}
}

// Verify performs a single lookup for code. Only valid results are cached.
func (v *Verifier) Verify(ctx context.Context, code string) Result {
	code = strings.TrimSpace(code)
	if code == "" {
		return Result{State: StateInvalid, Reason: ReasonInvalid, Message: msgRequired}
	}

	if code == DemoCode {
		v.log.Warn("demo certificate code used, verification bypassed", "code", code)
		return Result{State: StateValid, Code: code, Message: msgValid, Certificate: demoCertificate(), Demo: true}
	}

	var cached Result
	if hit, err := v.cache.Get(ctx, cacheKey(code), &cached); err != nil {
		v.log.Warn("certificate cache read failed", "code", code, "error", err)
	} else if hit {
		return cached
	}

	resp, err := v.lookup.VerifyCertificate(ctx, code)
	if err != nil {
		v.log.Error("certificate lookup failed", "code", code, "error", err)
		return Result{State: StateInvalid, Code: code, Reason: ReasonUnavailable, Message: msgUnavailable}
	}

	res := interpret(code, resp)
	if res.State == StateValid {
		if err := v.cache.Set(ctx, cacheKey(code), res, v.ttl); err != nil {
			v.log.Warn("certificate cache write failed", "code", code, "error", err)
		}
	}
	return res
}

func interpret(code string, resp *course.CertificateVerification) Result {
	switch {
	case resp == nil:
		return Result{State: StateInvalid, Code: code, Reason: ReasonInvalid, Message: msgInvalid}
	case resp.Valid:
		msg := resp.Message
		if msg == "" {
			msg = msgValid
		}
		return Result{State: StateValid, Code: code, Message: msg, Certificate: resp.Certificate}
	case resp.NotFound:
		return Result{State: StateInvalid, Code: code, Reason: ReasonNotFound, Message: msgNotFound}
	case resp.Message != "":
		return Result{State: StateInvalid, Code: code, Reason: ReasonInvalid, Message: resp.Message}
	default:
		return Result{State: StateInvalid, Code: code, Reason: ReasonInvalid, Message: msgInvalid}
	}
}

// Flow is one verification attempt: it starts loading, runs a single lookup
// and stays in its terminal state. A new code needs a new Flow.
type Flow struct {
	code   string
	state  State
	result Result
}

func NewFlow(code string) *Flow {
	return &Flow{code: code, state: StateLoading}
}

func (f *Flow) State() State {
	return f.state
}

// Run performs the lookup on the first call and returns the stored result afterwards.
func (f *Flow) Run(ctx context.Context, v *Verifier) Result {
	if f.state != StateLoading {
		return f.result
	}
	f.result = v.Verify(ctx, f.code)
	f.state = f.result.State
	return f.result
}
