package handlers

import (
	"log"
	"net/http"

	"github.com/anonto42/preference/backend/internal/moderation"
	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/repositories"
	"github.com/anonto42/preference/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler serves the staff moderation surface
type AdminHandler struct {
	profileRepository repositories.ProfileRepository
	wordRepository    repositories.SensitiveWordRepository
	accounts          firebase.Accounts
	emailDomain       string
}

// NewAdminHandler creates a new AdminHandler. accounts may be nil when Firebase is not configured.
func NewAdminHandler(profileRepo repositories.ProfileRepository, wordRepo repositories.SensitiveWordRepository, accounts firebase.Accounts, emailDomain string) *AdminHandler {
	return &AdminHandler{
		profileRepository: profileRepo,
		wordRepository:    wordRepo,
		accounts:          accounts,
		emailDomain:       emailDomain,
	}
}

// RegisterAdminRoutes registers staff-only routes; g must already require staff.
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.PUT("/users/:id/ban", h.ToggleBan)
	g.PUT("/users/:id/role", h.ToggleRole)
	g.GET("/sensitive-words", h.GetSensitiveWords)
	g.PUT("/sensitive-words", h.ReplaceSensitiveWords)
	g.POST("/invites", h.CreateInvitedAccount)
}

// ListUsers lists every profile, newest first
func (h *AdminHandler) ListUsers(c echo.Context) error {
	profiles, err := h.profileRepository.ListProfiles()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, profiles)
}

// managedProfile loads the :id profile; admins cannot be managed.
func (h *AdminHandler) managedProfile(c echo.Context) (*models.Profile, error) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	profile, err := h.profileRepository.GetProfileByID(userID)
	if err != nil {
		return nil, lookupError(err, "User")
	}
	if profile.Role == models.RoleAdmin {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Admins cannot be modified")
	}
	return profile, nil
}

// ToggleBan bans or unbans a user and mirrors it to the identity provider
func (h *AdminHandler) ToggleBan(c echo.Context) error {
	profile, err := h.managedProfile(c)
	if err != nil {
		return err
	}
	profile.IsBanned = !profile.IsBanned
	if err := h.profileRepository.UpdateProfile(profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.accounts != nil && profile.FirebaseUID != nil {
		if err := h.accounts.SetDisabled(c.Request().Context(), *profile.FirebaseUID, profile.IsBanned); err != nil {
			log.Printf("Failed to mirror ban for user %d: %v", profile.ID, err)
		}
	}
	return respond(c, http.StatusOK, profile)
}

// ToggleRole switches a user between user and moderator
func (h *AdminHandler) ToggleRole(c echo.Context) error {
	profile, err := h.managedProfile(c)
	if err != nil {
		return err
	}
	if profile.Role == models.RoleModerator {
		profile.Role = models.RoleUser
	} else {
		profile.Role = models.RoleModerator
	}
	if err := h.profileRepository.UpdateProfile(profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, profile)
}

// GetSensitiveWords returns the moderation word list
func (h *AdminHandler) GetSensitiveWords(c echo.Context) error {
	words, err := h.wordRepository.GetWords()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, words)
}

// ReplaceSensitiveWords replaces the whole list from a comma or newline separated string
func (h *AdminHandler) ReplaceSensitiveWords(c echo.Context) error {
	var req models.ReplaceWordsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	words, err := h.wordRepository.ReplaceWords(moderation.ParseWordList(req.Words), models.DefaultWordCategory)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return respond(c, http.StatusOK, words)
}

// CreateInvitedAccount provisions an account and returns its one-time credentials
func (h *AdminHandler) CreateInvitedAccount(c echo.Context) error {
	inviter, err := currentProfile(c)
	if err != nil {
		return err
	}
	var req models.InviteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin && inviter.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Only admins can invite admins")
	}

	loginID, password, err := inviteCredentials()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	email := loginEmail(loginID, h.emailDomain)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	profile := &models.Profile{
		Username:     loginID,
		Email:        email,
		Role:         role,
		IsFirstLogin: true,
		PasswordHash: string(hash),
	}
	if h.accounts != nil {
		uid, err := h.accounts.CreateAccount(c.Request().Context(), email, password, loginID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		profile.FirebaseUID = &uid
	}
	if err := h.profileRepository.CreateProfile(profile); err != nil {
		if profile.FirebaseUID != nil {
			if derr := h.accounts.DeleteAccount(c.Request().Context(), *profile.FirebaseUID); derr != nil {
				log.Printf("Failed to remove Firebase account %s after profile error: %v", *profile.FirebaseUID, derr)
			}
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return respond(c, http.StatusCreated, models.InvitedAccount{
		Profile:  profile,
		LoginID:  loginID,
		Password: password,
	})
}
