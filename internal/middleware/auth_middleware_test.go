package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/course-service/internal/app/clients"
	"github.com/coursehub/course-service/internal/middleware"
	"github.com/coursehub/course-service/internal/pkg/apperrors"
	pkgauth "github.com/coursehub/course-service/internal/pkg/auth"
)

type stubValidator struct {
	identity *clients.Identity
	err      error
}

func (s *stubValidator) ValidateToken(ctx context.Context, token string) (*clients.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func newProtectedRouter(m *middleware.AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/protected", m.Authenticate(), m.AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString(middleware.ContextRole)})
	})
	return router
}

func request(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate_LocalMode(t *testing.T) {
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "secret", TokenIssuer: "test"})
	router := newProtectedRouter(middleware.NewAuthMiddleware(jwtService, nil))

	adminToken, err := jwtService.GenerateToken(1, "admin@example.edu", "admin", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", adminToken, http.StatusUnauthorized},
		{"malformed token", "Bearer nope", http.StatusUnauthorized},
		{"valid admin", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(router, tt.header)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthenticate_LocalMode_ExpiredToken(t *testing.T) {
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "secret", TokenIssuer: "test"})
	router := newProtectedRouter(middleware.NewAuthMiddleware(jwtService, nil))

	expired, err := jwtService.GenerateToken(1, "admin@example.edu", "admin", -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	rec := request(router, "Bearer "+expired)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestAuthenticate_LocalMode_WrongSecret(t *testing.T) {
	signer := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "other-secret", TokenIssuer: "test"})
	verifier := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "secret", TokenIssuer: "test"})
	router := newProtectedRouter(middleware.NewAuthMiddleware(verifier, nil))

	token, err := signer.GenerateToken(1, "admin@example.edu", "admin", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	rec := request(router, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for foreign signature, got %d", rec.Code)
	}
}

func TestAuthenticate_RemoteMode(t *testing.T) {
	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{SecretKey: "secret", TokenIssuer: "test"})

	t.Run("valid admin identity", func(t *testing.T) {
		validator := &stubValidator{identity: &clients.Identity{UserID: 1, Email: "admin@example.edu", Role: "admin"}}
		router := newProtectedRouter(middleware.NewAuthMiddleware(jwtService, validator))

		rec := request(router, "Bearer remote-token")
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("non-admin identity", func(t *testing.T) {
		validator := &stubValidator{identity: &clients.Identity{UserID: 2, Email: "student@example.edu", Role: "student"}}
		router := newProtectedRouter(middleware.NewAuthMiddleware(jwtService, validator))

		rec := request(router, "Bearer remote-token")
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("validation rejected", func(t *testing.T) {
		validator := &stubValidator{err: errors.New("auth service said no")}
		router := newProtectedRouter(middleware.NewAuthMiddleware(jwtService, validator))

		rec := request(router, "Bearer remote-token")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("auth service unreachable", func(t *testing.T) {
		validator := &stubValidator{err: apperrors.ErrTokenInvalid}
		router := newProtectedRouter(middleware.NewAuthMiddleware(jwtService, validator))

		rec := request(router, "Bearer remote-token")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}
