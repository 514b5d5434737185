package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campus-kpi-tracker/internal/database/dbtest"
	"campus-kpi-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestPasswordRoundTrip(t *testing.T) {
	encoded, err := HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$m=65536,t=1,p=2$") {
		t.Errorf("encoded = %q", encoded)
	}
	if !VerifyPassword("correct horse", encoded) {
		t.Error("VerifyPassword rejected the right password")
	}
	if VerifyPassword("battery staple", encoded) {
		t.Error("VerifyPassword accepted the wrong password")
	}
	if VerifyPassword("x", "$2a$10$bcrypt") {
		t.Error("VerifyPassword accepted a non-argon2 hash")
	}
}

func TestTokensIssueAndParse(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	token, err := tokens.Issue(&models.User{ID: 42, Username: "ops", Role: models.RoleDataEntry})
	if err != nil {
		t.Fatal(err)
	}
	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID() != 42 || claims.Role != "data-entry" || claims.Username != "ops" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := NewTokens("other-secret", time.Hour).Parse(token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong secret err = %v", err)
	}

	expired := NewTokens("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := expired.Parse(token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expired err = %v", err)
	}
}

func TestParseRejectsUnknownRole(t *testing.T) {
	claims := Claims{
		Role: "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokens("s", time.Hour).Parse(signed); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestLoginAndBootstrap(t *testing.T) {
	db := dbtest.New(t)
	svc := NewService(db, NewTokens("s", time.Hour), nil)
	ctx := context.Background()

	if _, _, err := svc.Bootstrap(ctx, "admin@campus.edu", "", "short", "admin"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("short password err = %v", err)
	}
	if _, _, err := svc.Bootstrap(ctx, "admin@campus.edu", "", "long-enough", "root"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("bad role err = %v", err)
	}

	u, created, err := svc.Bootstrap(ctx, "admin@campus.edu", "", "long-enough", "admin")
	if err != nil || !created {
		t.Fatalf("Bootstrap = %v, %v", created, err)
	}
	if u.Username != "admin" {
		t.Errorf("Username = %q, want derived admin", u.Username)
	}

	token, got, err := svc.Login(ctx, "ADMIN@campus.edu", "long-enough")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || got.Role != models.RoleAdmin {
		t.Errorf("Login = %q, %+v", token, got)
	}

	if _, _, err := svc.Login(ctx, "admin@campus.edu", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@campus.edu", "long-enough"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v", err)
	}
}

func mustToken(t *testing.T, tokens *Tokens, role models.Role) string {
	t.Helper()
	token, err := tokens.Issue(&models.User{ID: 1, Username: "u", Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	r := gin.New()
	r.POST("/write", Authenticate(tokens), RequireRole(models.RoleAdmin, models.RoleDataEntry), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"viewer forbidden", "Bearer " + mustToken(t, tokens, models.RoleViewer), http.StatusForbidden},
		{"data entry allowed", "Bearer " + mustToken(t, tokens, models.RoleDataEntry), http.StatusNoContent},
		{"admin allowed", "Bearer " + mustToken(t, tokens, models.RoleAdmin), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/write", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.Code)
			}
		})
	}
}
