package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/auth"
	"libraryapi/internal/config"
	"libraryapi/internal/library"
	"libraryapi/internal/library/mocks"
	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/testutil"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

const testSecret = "router-secret"

func newTestHandler(t *testing.T, secret string, db pinger) (http.Handler, *mocks.MockCategoryRepository, *mocks.MockTransactor) {
	t.Helper()
	ctrl := gomock.NewController(t)
	categories := mocks.NewMockCategoryRepository(ctrl)
	books := mocks.NewMockBookRepository(ctrl)
	tx := mocks.NewMockTransactor(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hash, err := crypto.HashPassword("letmein")
	require.NoError(t, err)

	cfg := config.Config{
		AllowedOrigins: []string{"https://app.example"},
		MaxBodyBytes:   1 << 10,
		AdminJWTSecret: secret,
	}
	h := newRouter(routerDeps{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		library: library.NewHTTPHandler(library.NewService(categories, books, tx, logger)),
		auth:    auth.NewHTTPHandler(auth.NewService(secret, hash, time.Minute)),
	})
	return h, categories, tx
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h, _, _ := newTestHandler(t, "", fakePinger{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	down, _, _ := newTestHandler(t, "", fakePinger{err: errors.New("down")})
	rec = serve(down, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_UnknownPathAndMethod(t *testing.T) {
	h, _, _ := newTestHandler(t, "", fakePinger{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/v1/library/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)

	rec = serve(h, httptest.NewRequest(http.MethodPatch, "/v1/library/getallbook", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please change your HTTP method type")
}

func TestRouter_CORS(t *testing.T) {
	h, _, _ := newTestHandler(t, "", fakePinger{})

	req := httptest.NewRequest(http.MethodOptions, "/v1/library/getallbook", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := serve(h, req)

	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/library/getallbook", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = serve(h, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_WritesRequireAdminToken(t *testing.T) {
	h, categories, tx := newTestHandler(t, testSecret, fakePinger{})

	body := `{"name":"Fiction"}`
	rec := serve(h, httptest.NewRequest(http.MethodPost, "/v1/library/category/addcategory", strings.NewReader(body)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := testutil.Serve(t, h, testutil.NewRequestWithAuth(t, http.MethodDelete, "/v1/library/deletebook/1", nil, testutil.ExpiredToken(t, testSecret)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	rec = serve(h, httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(`{"password":"letmein"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var tokenResp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &tokenResp))
	require.NotEmpty(t, tokenResp.Data.AccessToken)

	tx.EXPECT().
		WithinTx(gomock.Any(), library.ReadWrite, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ library.TxMode, fn func(context.Context) error) error {
			return fn(ctx)
		})
	categories.EXPECT().
		Save(gomock.Any(), library.Category{Name: "Fiction"}).
		Return(library.Category{ID: 1, Name: "Fiction"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/library/category/addcategory", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tokenResp.Data.AccessToken)
	rec = serve(h, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_ReadsAreOpen(t *testing.T) {
	h, categories, tx := newTestHandler(t, testSecret, fakePinger{})

	tx.EXPECT().
		WithinTx(gomock.Any(), library.ReadOnly, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ library.TxMode, fn func(context.Context) error) error {
			return fn(ctx)
		})
	categories.EXPECT().FindAll(gomock.Any()).Return([]library.Category{}, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/v1/library/category/genres", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_COLLECTION")
}

func TestRouter_BodyTooLarge(t *testing.T) {
	h, _, _ := newTestHandler(t, "", fakePinger{})

	big := `{"name":"` + strings.Repeat("x", 2048) + `"}`
	rec := serve(h, httptest.NewRequest(http.MethodPost, "/v1/library/category/addcategory", strings.NewReader(big)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://***@localhost:5432/library", redactDSN("postgres://user:pw@localhost:5432/library"))
	assert.Equal(t, "no-credentials", redactDSN("no-credentials"))
}
