package models

import "time"

const DefaultWordCategory = "misogyny"

type SensitiveWord struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Word        string    `json:"word" gorm:"uniqueIndex;not null"`
	Replacement string    `json:"replacement"`
	Category    string    `json:"category" gorm:"size:50"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReplaceWordsRequest struct {
	Words string `json:"words"`
}

type InviteRequest struct {
	Role string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// InvitedAccount is returned once to the inviter; the password is not stored in clear.
type InvitedAccount struct {
	Profile  *Profile `json:"profile"`
	LoginID  string   `json:"login_id"`
	Password string   `json:"password"`
}
