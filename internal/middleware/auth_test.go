package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"catalog/internal/auth"
	"catalog/internal/model"
)

// stubUserRepo is an in-memory credential store for gateway tests.
type stubUserRepo struct {
	users map[string]*model.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (s *stubUserRepo) Save(ctx context.Context, user *model.User) error  { return nil }

func (s *stubUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if user, ok := s.users[username]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newGateway(users *stubUserRepo) (*echo.Echo, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret", 0)

	e := echo.New()
	secured := e.Group("/api", JWT(jwtService), Identity(users))
	secured.GET("/products", func(c echo.Context) error {
		ident, _ := GetIdentity(c)
		return c.String(http.StatusOK, ident.Username)
	}, RequireRole(model.RoleUser))
	secured.POST("/categories", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, RequireRole(model.RoleAdmin))

	return e, jwtService
}

func request(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGateway_ValidTokenAndRole(t *testing.T) {
	users := &stubUserRepo{users: map[string]*model.User{
		"alice": {ID: 1, Username: "alice", Role: model.RoleUser, Active: true},
	}}
	e, jwtService := newGateway(users)

	token, err := jwtService.Issue("alice")
	assert.NoError(t, err)

	rec := request(e, http.MethodGet, "/api/products", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

// A request with no Authorization header at all is an authentication
// failure, same as a bad token.
func TestGateway_MissingToken(t *testing.T) {
	e, _ := newGateway(&stubUserRepo{users: map[string]*model.User{}})

	rec := request(e, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateway_InvalidToken(t *testing.T) {
	e, _ := newGateway(&stubUserRepo{users: map[string]*model.User{}})

	rec := request(e, http.MethodGet, "/api/products", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateway_UnknownUser(t *testing.T) {
	users := &stubUserRepo{users: map[string]*model.User{}}
	e, jwtService := newGateway(users)

	token, err := jwtService.Issue("ghost")
	assert.NoError(t, err)

	rec := request(e, http.MethodGet, "/api/products", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateway_DeactivatedUser(t *testing.T) {
	users := &stubUserRepo{users: map[string]*model.User{
		"alice": {ID: 1, Username: "alice", Role: model.RoleUser, Active: false},
	}}
	e, jwtService := newGateway(users)

	token, err := jwtService.Issue("alice")
	assert.NoError(t, err)

	rec := request(e, http.MethodGet, "/api/products", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// A valid identity with the wrong role is an authorization failure, not an
// authentication failure.
func TestGateway_RoleMismatchIsForbidden(t *testing.T) {
	users := &stubUserRepo{users: map[string]*model.User{
		"alice": {ID: 1, Username: "alice", Role: model.RoleUser, Active: true},
	}}
	e, jwtService := newGateway(users)

	token, err := jwtService.Issue("alice")
	assert.NoError(t, err)

	rec := request(e, http.MethodPost, "/api/categories", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGateway_RoleIsFreshlyResolved(t *testing.T) {
	// the token carries no role; promoting the stored user is enough
	users := &stubUserRepo{users: map[string]*model.User{
		"alice": {ID: 1, Username: "alice", Role: model.RoleAdmin, Active: true},
	}}
	e, jwtService := newGateway(users)

	token, err := jwtService.Issue("alice")
	assert.NoError(t, err)

	rec := request(e, http.MethodPost, "/api/categories", token)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
