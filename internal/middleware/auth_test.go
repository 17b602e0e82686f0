package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, userID uint, exp time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func runJWT(t *testing.T, req *http.Request) (int, *models.JwtCustomClaims) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var got *models.JwtCustomClaims
	h := JWTAuthMiddleware(testSecret)(func(c echo.Context) error {
		got, _ = ClaimsFromContext(c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he.Code, nil
		}
		t.Fatalf("unexpected error: %v", err)
	}
	return rec.Code, got
}

func TestJWTAuthMiddleware(t *testing.T) {
	valid := signToken(t, testSecret, 42, time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"bad format", "Token " + valid, "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", 42, time.Now().Add(time.Hour)), "", http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, 42, time.Now().Add(-time.Hour)), "", http.StatusUnauthorized},
		{"header", "Bearer " + valid, "", http.StatusOK},
		{"query fallback", "", valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/"
			if tt.query != "" {
				target = "/?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			code, claims := runJWT(t, req)
			if code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, code)
			}
			if tt.want == http.StatusOK && (claims == nil || claims.UserID != 42) {
				t.Fatalf("claims not stored: %+v", claims)
			}
		})
	}
}

type stubProfiles map[uint]*models.Profile

func (s stubProfiles) GetProfileByID(id uint) (*models.Profile, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestRequireActiveAndStaff(t *testing.T) {
	profiles := stubProfiles{
		1: {ID: 1, Role: models.RoleUser},
		2: {ID: 2, Role: models.RoleUser, IsBanned: true},
		3: {ID: 3, Role: models.RoleModerator},
	}

	tests := []struct {
		name   string
		userID uint
		staff  bool
		want   int
	}{
		{"active user", 1, false, http.StatusOK},
		{"banned user", 2, false, http.StatusForbidden},
		{"unknown user", 9, false, http.StatusUnauthorized},
		{"user on staff route", 1, true, http.StatusForbidden},
		{"moderator on staff route", 3, true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			c.Set(ClaimsKey, &models.JwtCustomClaims{UserID: tt.userID})

			h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
			if tt.staff {
				h = RequireStaff()(h)
			}
			h = RequireActive(profiles)(h)

			code := http.StatusOK
			if err := h(c); err != nil {
				var he *echo.HTTPError
				if !errors.As(err, &he) {
					t.Fatalf("unexpected error: %v", err)
				}
				code = he.Code
			}
			if code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, code)
			}
		})
	}
}
