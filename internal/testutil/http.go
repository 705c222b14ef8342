package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/gatherhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents caller data for testing HTTP handlers.
type TestUser struct {
	ID        string
	Name      string
	IsAdmin   bool
	IsBlocked bool
}

// RegularUser returns a signed-in, non-admin TestUser.
func RegularUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Name: "test-user"}
}

// AdminUser returns a TestUser with admin rights.
func AdminUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Name: "test-admin", IsAdmin: true}
}

// BlockedUser returns a TestUser that has been blocked.
func BlockedUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Name: "test-blocked", IsBlocked: true}
}

// UserWithID returns a regular TestUser with the given id.
func UserWithID(id primitive.ObjectID) TestUser {
	return TestUser{ID: id.Hex(), Name: "test-user"}
}

// OID returns the user's id as an ObjectID. It panics on malformed ids.
func (u TestUser) OID() primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		panic(err)
	}
	return oid
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:        user.ID,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
		IsBlocked: user.IsBlocked,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
func NewJSONRequest(method, target string, v any) *http.Request {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		panic(err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body %q does not contain %q", r.Body.String(), expected)
	}
}

// DecodeJSON decodes the response body into a map.
func (r *ResponseRecorder) DecodeJSON(t interface{ Fatalf(string, ...any) }) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(r.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response %q: %v", r.Body.String(), err)
	}
	return m
}
