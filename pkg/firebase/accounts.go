package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// VerifiedToken is the subset of a verified Firebase ID token the service uses.
type VerifiedToken struct {
	UID   string
	Email string
	Name  string
}

// Accounts is the administrative surface of the identity provider.
type Accounts interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
	SetPassword(ctx context.Context, uid, password string) error
	SetDisabled(ctx context.Context, uid string, disabled bool) error
	DeleteAccount(ctx context.Context, uid string) error
	VerifyIDToken(ctx context.Context, idToken string) (*VerifiedToken, error)
}

// AuthAccounts implements Accounts on top of the Firebase Auth admin client.
type AuthAccounts struct {
	client *auth.Client
}

// NewAuthAccounts wraps a Firebase auth client.
func NewAuthAccounts(client *auth.Client) *AuthAccounts {
	return &AuthAccounts{client: client}
}

// CreateAccount creates a pre-verified email/password account and returns its UID.
func (a *AuthAccounts) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		EmailVerified(true).
		DisplayName(displayName)

	record, err := a.client.CreateUser(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create firebase user %s: %w", email, err)
	}
	return record.UID, nil
}

func (a *AuthAccounts) SetPassword(ctx context.Context, uid, password string) error {
	if _, err := a.client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Password(password)); err != nil {
		return fmt.Errorf("update firebase password for %s: %w", uid, err)
	}
	return nil
}

func (a *AuthAccounts) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	if _, err := a.client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Disabled(disabled)); err != nil {
		return fmt.Errorf("update firebase disabled flag for %s: %w", uid, err)
	}
	return nil
}

func (a *AuthAccounts) DeleteAccount(ctx context.Context, uid string) error {
	if err := a.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("delete firebase user %s: %w", uid, err)
	}
	return nil
}

func (a *AuthAccounts) VerifyIDToken(ctx context.Context, idToken string) (*VerifiedToken, error) {
	token, err := a.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	verified := &VerifiedToken{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		verified.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		verified.Name = name
	}
	return verified, nil
}
