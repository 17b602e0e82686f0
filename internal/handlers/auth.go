package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/anonto42/preference/backend/pkg/firebase"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	profileRepository repositories.ProfileRepository
	accounts          firebase.Accounts
	jwtSecret         string
	tokenTTL          time.Duration
	emailDomain       string
}

// NewAuthHandler creates a new AuthHandler. accounts may be nil when Firebase is not configured.
func NewAuthHandler(profileRepo repositories.ProfileRepository, accounts firebase.Accounts, jwtSecret string, tokenTTL time.Duration, emailDomain string) *AuthHandler {
	return &AuthHandler{
		profileRepository: profileRepo,
		accounts:          accounts,
		jwtSecret:         jwtSecret,
		tokenTTL:          tokenTTL,
		emailDomain:       emailDomain,
	}
}

// RegisterAuthRoutes registers the public sign-in routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// RegisterAccountRoutes registers routes that need a session
func (h *AuthHandler) RegisterAccountRoutes(g *echo.Group) {
	g.POST("/auth/change-password", h.ChangePassword)
}

// SessionResponse is returned by every successful sign-in.
type SessionResponse struct {
	Token        string          `json:"token"`
	IsFirstLogin bool            `json:"is_first_login"`
	Profile      *models.Profile `json:"profile"`
}

// loginEmail turns a bare invite login id into its account email.
func loginEmail(loginID, domain string) string {
	loginID = strings.TrimSpace(loginID)
	if strings.Contains(loginID, "@") {
		return loginID
	}
	return loginID + "@" + domain
}

// SignIn authenticates with an email or invite login id and a password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.profileRepository.GetProfileByEmail(loginEmail(req.LoginID, h.emailDomain))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid login id or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	if profile.PasswordHash == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid login id or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid login id or password")
	}

	return h.session(c, profile)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin exchanges a Firebase ID token for a local session. Accounts
// are invite only, so unknown identities are rejected.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.accounts == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.accounts.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	profile, err := h.profileRepository.GetProfileByFirebaseUID(token.UID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
		}
		if token.Email == "" {
			return echo.NewHTTPError(http.StatusForbidden, "Account has not been invited")
		}
		// Invited before Firebase was linked; attach the uid to the profile.
		profile, err = h.profileRepository.GetProfileByEmail(token.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusForbidden, "Account has not been invited")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
		}
		uid := token.UID
		profile.FirebaseUID = &uid
		if err := h.profileRepository.UpdateProfile(profile); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to link Firebase account")
		}
	}

	return h.session(c, profile)
}

// ChangePassword sets a new password and clears the first-login flag
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	profile, err := currentProfile(c)
	if err != nil {
		return err
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if req.Password != req.ConfirmPassword {
		return echo.NewHTTPError(http.StatusBadRequest, "Passwords do not match")
	}
	if len(req.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	if h.accounts != nil && profile.FirebaseUID != nil {
		if err := h.accounts.SetPassword(c.Request().Context(), *profile.FirebaseUID, req.Password); err != nil {
			log.Printf("Failed to update Firebase password for user %d: %v", profile.ID, err)
			return echo.NewHTTPError(http.StatusBadGateway, "Failed to update password with identity provider")
		}
	}

	profile.PasswordHash = string(hashedPassword)
	profile.IsFirstLogin = false
	if err := h.profileRepository.UpdateProfile(profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return respond(c, http.StatusOK, profile)
}

func (h *AuthHandler) session(c echo.Context, profile *models.Profile) error {
	if profile.IsBanned {
		return echo.NewHTTPError(http.StatusForbidden, "Account is banned")
	}
	token, err := h.generateJWT(profile)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return respond(c, http.StatusOK, SessionResponse{
		Token:        token,
		IsFirstLogin: profile.IsFirstLogin,
		Profile:      profile,
	})
}

// generateJWT generates a JWT token for a given profile
func (h *AuthHandler) generateJWT(profile *models.Profile) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: profile.ID,
		Email:  profile.Email,
		Role:   profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
