package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sweetshop/api/internal/models"
	"github.com/sweetshop/api/internal/repo"
	"github.com/sweetshop/api/internal/service"
	"github.com/sweetshop/api/internal/transport"
	"github.com/sweetshop/api/pkg/hash"
	"github.com/sweetshop/api/pkg/tokens"
)

// testServer wires the whole HTTP stack against an in-memory sqlite database
// so the tests exercise routing, middleware, validation and the envelope
// exactly as a client sees them.
type testServer struct {
	e      *echo.Echo
	repo   *repo.GormRepo
	tokens tokens.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Sweet{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	r := &repo.GormRepo{DB: db}
	cfg := tokens.Config{Secret: []byte("test-jwt-secret"), Expiry: time.Hour}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:  &AuthHTTP{Svc: &service.AuthService{Repo: r, Tokens: cfg}},
		SweetHandler: &SweetHTTP{Svc: &service.CatalogService{Repo: r}},
		OrderHandler: &OrderHTTP{Svc: &service.OrderService{Repo: r}},
		UserHandler:  &UserHTTP{Svc: &service.UserService{Repo: r}},
		Tokens:       cfg,
	})

	return &testServer{e: e, repo: r, tokens: cfg}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createUser(t *testing.T, username, password, role string) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Username: username, PasswordHash: pwHash, Role: role}
	require.NoError(t, s.repo.CreateUser(t.Context(), u))
	return u
}

func (s *testServer) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()

	token, err := s.tokens.Sign(u.ID.String(), u.Username, u.Role)
	require.NoError(t, err)
	return token
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	return s.tokenFor(t, s.createUser(t, "admin", "admin123", models.RoleAdmin))
}

func (s *testServer) seedSweet(t *testing.T, name string, price float64, stock int) *models.Sweet {
	t.Helper()

	sweet := &models.Sweet{Name: name, Price: price, Stock: stock}
	require.NoError(t, s.repo.CreateSweet(t.Context(), sweet))
	return sweet
}

// decodeBody unmarshals the response envelope; Data comes back as generic
// JSON, so assertions walk it with dataMap.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) transport.APIResponse {
	t.Helper()

	var resp transport.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}

func dataMap(t *testing.T, resp transport.APIResponse) map[string]any {
	t.Helper()

	m, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is %T, want object", resp.Data)
	return m
}

func decodeValidation(t *testing.T, rec *httptest.ResponseRecorder) transport.ValidationErrorResponse {
	t.Helper()

	require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", rec.Body.String())
	var resp transport.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
