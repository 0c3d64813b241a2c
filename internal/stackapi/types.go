package stackapi

import (
	"context"
	"fmt"

	"github.com/hetulpatel/stackseed/internal/dataset"
)

const (
	PathAddQuestion = "/questions/add"
	PathAddUser     = "/adduser"
	PathVerify      = "/verify/"
)

// Response is the envelope the Q&A service answers with.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	ID     string `json:"id,omitempty"`
}

// Result describes one completed request.
type Result struct {
	Endpoint   string
	StatusCode int
	Payload    []byte
	RawBody    []byte
	Response   Response
}

// OK reports a 2xx status.
func (r *Result) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Summary renders the response for log lines.
func (r *Result) Summary() string {
	if r == nil {
		return ""
	}
	switch {
	case r.Response.Error != "":
		return fmt.Sprintf("%d %s: %s", r.StatusCode, r.Response.Status, r.Response.Error)
	case r.Response.Status != "":
		return fmt.Sprintf("%d %s", r.StatusCode, r.Response.Status)
	default:
		return fmt.Sprintf("%d", r.StatusCode)
	}
}

// AddUserRequest is the registration payload. Field order matches the service's examples.
type AddUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAddUserRequest(u dataset.User) AddUserRequest {
	return AddUserRequest{Email: u.Email, Username: u.Username, Password: u.Password}
}

// VerifyRequest confirms a registered email with the shared key.
type VerifyRequest struct {
	Email string `json:"email"`
	Key   string `json:"key"`
}

// AddQuestion posts one question.
func (c *Client) AddQuestion(ctx context.Context, q dataset.Question) (*Result, error) {
	return c.Post(ctx, PathAddQuestion, q)
}

// AddUser registers one user.
func (c *Client) AddUser(ctx context.Context, u dataset.User) (*Result, error) {
	return c.Post(ctx, PathAddUser, NewAddUserRequest(u))
}

// Verify submits the verification key for email.
func (c *Client) Verify(ctx context.Context, email, key string) (*Result, error) {
	return c.Post(ctx, PathVerify, VerifyRequest{Email: email, Key: key})
}
