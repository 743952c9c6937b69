// Package testutil holds helpers shared by HTTP tests.
package testutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/platform/crypto"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AdminToken signs a valid ADMIN token.
func AdminToken(t testing.TB, secret string) string {
	return Token(t, secret, crypto.RoleAdmin)
}

// Token signs a valid token carrying role.
func Token(t testing.TB, secret, role string) string {
	t.Helper()
	token, _, err := crypto.GenerateToken(secret, "test-subject", role, time.Hour)
	require.NoError(t, err)
	return token
}

// ExpiredToken signs an ADMIN token that expired an hour ago.
func ExpiredToken(t testing.TB, secret string) string {
	t.Helper()
	c := crypto.Claims{
		Sub:  "test-subject",
		Role: crypto.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// NewRequest builds a request; a non-nil body is sent as JSON.
func NewRequest(t testing.TB, method, path string, body any) *http.Request {
	t.Helper()
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	r := httptest.NewRequest(method, path, bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewRequestWithAuth is NewRequest plus a bearer token.
func NewRequestWithAuth(t testing.TB, method, path string, body any, token string) *http.Request {
	t.Helper()
	r := NewRequest(t, method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// Envelope is the decoded response body.
type Envelope struct {
	Success bool                `json:"success"`
	Data    jsoniter.RawMessage `json:"data"`
	Meta    map[string]any      `json:"meta"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

// Serve runs req through h and decodes the envelope.
func Serve(t testing.TB, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

// DecodeData unmarshals the envelope's data into v.
func DecodeData(t testing.TB, env Envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}
