package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/streck/storefront-api/internal/api/middleware"
	"github.com/streck/storefront-api/internal/core/domain"
	"github.com/streck/storefront-api/internal/core/service"
	"github.com/streck/storefront-api/internal/infrastructure/db/postgres"
	"github.com/streck/storefront-api/internal/infrastructure/identity"
	"github.com/streck/storefront-api/internal/pkg/config"
)

const testSecret = "router-test-secret"

type fakeMediaHost struct {
	err error
}

func (h *fakeMediaHost) Upload(_ context.Context, r io.Reader, filename string) (*domain.HostedImage, error) {
	if h.err != nil {
		return nil, h.err
	}
	data, _ := io.ReadAll(r)
	return &domain.HostedImage{
		URL:      "https://res.cloudinary.com/demo/image/upload/" + filename,
		PublicID: "storefront/products/" + filename,
		Width:    10,
		Height:   10,
		Format:   "png",
		Bytes:    len(data),
	}, nil
}

type testServer struct {
	e      *echo.Echo
	issuer *service.JWTIssuer
}

func newTestServer(t *testing.T, gateMode string, host *fakeMediaHost) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zerolog.Nop()
	issuer := service.NewJWTIssuer(testSecret, service.DefaultTokenTTL)
	admin := identity.NewStatic(identity.StaticConfig{
		Email:    "hi@streck.in",
		Password: "Streck@123!",
		Name:     "Streck Admin",
	})
	if host == nil {
		host = &fakeMediaHost{}
	}

	e := NewRouter(Dependencies{
		Log:          log,
		Gate:         middleware.GateConfig{Prefix: "/admin", Mode: gateMode, Decoder: issuer},
		Auth:         service.NewAuthService(admin, issuer, log),
		ProductTypes: service.NewProductTypeService(postgres.NewProductTypeRepository(db), nil, log),
		Uploads:      service.NewUploadService(host, nil, log),
		Registry:     prometheus.NewRegistry(),
	})
	return &testServer{e: e, issuer: issuer}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return s.do(req)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestLogin_Success(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, nil)

	rec := s.postJSON("/api/auth/login", `{"email":"hi@streck.in","password":"Streck@123!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true || body["message"] != "Login successful" {
		t.Fatalf("unexpected body: %+v", body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	a, err := s.issuer.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Role != domain.RoleAdmin || a.Email != "hi@streck.in" {
		t.Fatalf("unexpected assertion: %+v", a)
	}
	if got := a.ExpiresAt.Sub(a.IssuedAt).Seconds(); got != 86400 {
		t.Fatalf("expected exp-iat = 86400, got %v", got)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, nil)

	rec := s.postJSON("/api/auth/login", `{"email":"x@x.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Invalid email or password" {
		t.Fatalf("unexpected error: %+v", body)
	}
	if _, ok := body["token"]; ok {
		t.Fatalf("401 response must not carry a token")
	}
}

func TestLogin_RightEmailWrongPassword(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, nil)

	rec := s.postJSON("/api/auth/login", `{"email":"hi@streck.in","password":"streck@123!"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, nil)

	for _, payload := range []string{`{}`, `{"email":"hi@streck.in"}`, `{"password":"Streck@123!"}`} {
		rec := s.postJSON("/api/auth/login", payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", payload, rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != "Email and password are required" {
			t.Fatalf("%s: unexpected error: %+v", payload, body)
		}
	}
}

func TestLogin_UnreadableBodyIsGeneric500(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, nil)

	rec := s.postJSON("/api/auth/login", `{"email":`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Internal server error" {
		t.Fatalf("unexpected error: %+v", body)
	}
}

func TestSecurityHeadersOnEveryResponse(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, nil)

	for _, rec := range []*httptest.ResponseRecorder{
		s.do(httptest.NewRequest(http.MethodGet, "/health", nil)),
		s.do(httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)),
		s.postJSON("/api/auth/login", `{}`),
	} {
		if rec.Header().Get("X-Frame-Options") != "DENY" ||
			rec.Header().Get("X-Content-Type-Options") != "nosniff" ||
			rec.Header().Get("Referrer-Policy") != "origin-when-cross-origin" {
			t.Fatalf("missing security headers on %d response: %v", rec.Code, rec.Header())
		}
	}
}

func TestProductTypes_CreateAndList(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, nil)

	for _, payload := range []string{
		`{"name":"Posters","slug":"posters","sortOrder":2}`,
		`{"name":"Caps","slug":"caps","sortOrder":1,"status":"inactive"}`,
		`{"name":"Hoodies","slug":"hoodies","sortOrder":1}`,
	} {
		if rec := s.postJSON("/api/product-types", payload); rec.Code != http.StatusCreated {
			t.Fatalf("create %s: expected 201, got %d: %s", payload, rec.Code, rec.Body.String())
		}
	}

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/product-types", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var all struct {
		Data []domain.ProductType `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	var slugs []string
	for _, pt := range all.Data {
		slugs = append(slugs, pt.Slug)
	}
	if strings.Join(slugs, ",") != "caps,hoodies,posters" {
		t.Fatalf("unexpected order: %v", slugs)
	}

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/product-types?status=inactive", nil))
	var inactive struct {
		Data []domain.ProductType `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &inactive); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(inactive.Data) != 1 || inactive.Data[0].Slug != "caps" {
		t.Fatalf("unexpected filtered list: %+v", inactive.Data)
	}
}

func TestProductTypes_Errors(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, nil)

	rec := s.postJSON("/api/product-types", `{"name":"Only name"}`)
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Name and slug are required" {
		t.Fatalf("expected 400 required error, got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.postJSON("/api/product-types", `{"name":"A","slug":"a","status":"archived"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status, got %d", rec.Code)
	}

	if rec := s.postJSON("/api/product-types", `{"name":"A","slug":"a"}`); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	rec = s.postJSON("/api/product-types", `{"name":"B","slug":"a"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "A product type with this slug already exists" {
		t.Fatalf("unexpected error: %+v", body)
	}
}

func multipartRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, contentType := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		h.Set("Content-Type", contentType)
		pw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = pw.Write([]byte("data"))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUpload_Success(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, nil)

	rec := s.do(multipartRequest(t, map[string]string{"a.png": "image/png"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	files, _ := body["files"].([]any)
	if body["success"] != true || len(files) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestUpload_RejectsNonImage(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, nil)

	rec := s.do(multipartRequest(t, map[string]string{"notes.txt": "text/plain"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpload_HostFailure(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, &fakeMediaHost{err: errors.New("cloudinary down")})

	rec := s.do(multipartRequest(t, map[string]string{"a.png": "image/png"}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Failed to upload images" {
		t.Fatalf("unexpected error: %+v", body)
	}
}

func TestAdminSession_Passthrough(t *testing.T) {
	s := newTestServer(t, config.GateModePassthrough, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/session", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	if rec := s.do(req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 from session check, got %d", rec.Code)
	}

	token, _, err := s.issuer.Issue(domain.AdminIdentity{Email: "hi@streck.in", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/admin/session", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := s.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["authenticated"] != true {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAdminGate_Enforce(t *testing.T) {
	s := newTestServer(t, config.GateModeEnforce, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/admin/session", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, _, err := s.issuer.Issue(domain.AdminIdentity{Email: "hi@streck.in", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/session", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	if rec := s.do(req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}

	// Public routes stay open in enforce mode.
	if rec := s.do(httptest.NewRequest(http.MethodGet, "/api/product-types", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected public route to stay open, got %d", rec.Code)
	}
}
