package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Profile is an account of the network. Accounts are created by staff invites.
type Profile struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	AvatarURL    *string   `json:"avatar_url"`
	Bio          *string   `json:"bio"`
	Role         string    `json:"role" gorm:"size:20;default:user;not null"`
	IsBanned     bool      `json:"is_banned" gorm:"default:false;not null"`
	IsFirstLogin bool      `json:"is_first_login" gorm:"default:false;not null"`
	FirebaseUID  *string   `json:"-" gorm:"uniqueIndex"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsStaff reports whether the profile may use the admin surface.
func (p *Profile) IsStaff() bool {
	return p.Role == RoleAdmin || p.Role == RoleModerator
}

// ProfileCompact is the author/actor view embedded in other payloads.
type ProfileCompact struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
	Role      string  `json:"role"`
	IsBanned  bool    `json:"is_banned"`
}

func (p *Profile) ToCompact() ProfileCompact {
	return ProfileCompact{
		ID:        p.ID,
		Username:  p.Username,
		AvatarURL: p.AvatarURL,
		Role:      p.Role,
		IsBanned:  p.IsBanned,
	}
}

// ProfileDetail is a profile page: the profile plus follow counts.
type ProfileDetail struct {
	Profile
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type SignInRequest struct {
	LoginID  string `json:"login_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
