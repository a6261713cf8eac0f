// Package upstream is the client for the LMS REST API. Responses are decoded
// into loosely-typed records and mapped once into the models/course types.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"lms/logger"
	"lms/utils"
)

// Error is a failed upstream call. Status is 0 when the API could not be reached.
type Error struct {
	Status   int
	Message  string
	NotFound bool
	Err      error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("upstream unreachable: %v", e.Err)
	}
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an upstream 404
func IsNotFound(err error) bool {
	var ue *Error
	return errors.As(err, &ue) && ue.NotFound
}

// StatusOf returns the upstream status carried by err, or 0
func StatusOf(err error) int {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Status
	}
	return 0
}

type Client struct {
	http *resty.Client
	log  *logger.Logger
	loc  *time.Location
}

// New builds a client for baseURL. Calls are never retried.
func New(baseURL string, timeout time.Duration, loc *time.Location, log *logger.Logger) *Client {
	if loc == nil {
		loc = time.UTC
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{http: rc, log: log.With("component", "upstream"), loc: loc}
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if token != "" {
		r.SetAuthToken(token)
	}
	return r
}

// do executes r and returns the decoded body with any {"data": ...} envelope removed
func (c *Client) do(r *resty.Request, method, path string) (interface{}, error) {
	start := time.Now()
	resp, err := r.Execute(method, path)
	if err != nil {
		c.log.Error("upstream request failed", "method", method, "path", path, "error", err)
		return nil, &Error{Err: err, Message: "The learning platform is unreachable. Please try again later."}
	}

	c.log.Debug("upstream request", "method", method, "path", path, "status", resp.StatusCode(), "took", time.Since(start))

	var body interface{}
	if raw := resp.Body(); len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil && resp.IsSuccess() {
			return nil, &Error{Status: http.StatusBadGateway, Message: "Unexpected response from the learning platform.", Err: err}
		}
	}

	if resp.IsError() {
		ue := &Error{
			Status:   resp.StatusCode(),
			Message:  errorMessage(body, resp.StatusCode()),
			NotFound: resp.StatusCode() == http.StatusNotFound,
		}
		c.log.Warn("upstream error response", "method", method, "path", path, "status", ue.Status, "message", ue.Message)
		return nil, ue
	}
	return unwrap(body), nil
}

func errorMessage(body interface{}, status int) string {
	if obj, ok := body.(map[string]interface{}); ok {
		f := utils.Fields(obj)
		if msg := f.String("message", "detail", "error"); msg != "" {
			return msg
		}
		for _, v := range obj {
			// field errors: {"title": ["This field is required."]}
			if l, ok := v.([]interface{}); ok && len(l) > 0 {
				return utils.ToString(l[0])
			}
		}
	}
	return http.StatusText(status)
}

func unwrap(body interface{}) interface{} {
	if obj, ok := body.(map[string]interface{}); ok {
		if data, ok := obj["data"]; ok && data != nil && len(obj) <= 3 {
			return data
		}
	}
	return body
}

// asFields returns body as a record, or an empty one
func asFields(body interface{}) utils.Fields {
	if obj, ok := body.(map[string]interface{}); ok {
		return utils.Fields(obj)
	}
	return utils.Fields{}
}

// asList returns body as a list of records, accepting bare arrays and
// paginated {"results": [...]} shapes
func asList(body interface{}) []utils.Fields {
	var items []interface{}
	switch v := body.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		items = utils.Fields(v).List("results", "items", "data")
	}
	out := make([]utils.Fields, 0, len(items))
	for _, it := range items {
		if obj, ok := it.(map[string]interface{}); ok {
			out = append(out, utils.Fields(obj))
		}
	}
	return out
}

func (c *Client) get(ctx context.Context, token, path string) (interface{}, error) {
	return c.do(c.request(ctx, token), resty.MethodGet, path)
}

func (c *Client) send(ctx context.Context, token, method, path string, payload interface{}) (interface{}, error) {
	r := c.request(ctx, token)
	if payload != nil {
		r.SetBody(payload)
	}
	return c.do(r, method, path)
}
