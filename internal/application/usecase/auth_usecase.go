// internal/application/usecase/auth_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	sessdom "sweetshop/internal/domain/session"
)

var (
	ErrAuthInvalidArgument = errors.New("auth_usecase: invalid argument")
)

// AuthGateway is the identity provider capability set the auth flows need.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*sessdom.Identity, error)
	Register(ctx context.Context, email, password, displayName string) (*sessdom.Identity, error)
	Logout(ctx context.Context) error
}

// ProfileWriter creates the per-user profile document at registration time.
type ProfileWriter interface {
	SaveProfile(ctx context.Context, p sessdom.Profile) error
}

// AuthUsecase drives register/login/logout. Store updates are not done here:
// the gateway emits session changes and the sync coordinator reacts to them,
// so every path into an authenticated session behaves identically.
type AuthUsecase struct {
	gateway  AuthGateway
	profiles ProfileWriter
}

func NewAuthUsecase(gateway AuthGateway, profiles ProfileWriter) *AuthUsecase {
	return &AuthUsecase{gateway: gateway, profiles: profiles}
}

// Register creates the account and its profile document (role "user").
// The profile write is best effort: the account already exists in the
// identity provider, so a profile failure must not fail registration; the
// role lookup degrades to "user" without the document anyway.
func (uc *AuthUsecase) Register(ctx context.Context, email, password, displayName string) (*sessdom.Identity, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if email == "" || password == "" || displayName == "" {
		return nil, ErrAuthInvalidArgument
	}

	id, err := uc.gateway.Register(ctx, email, password, displayName)
	if err != nil {
		return nil, err
	}

	if uc.profiles != nil {
		p := sessdom.Profile{
			UID:   id.UID,
			Email: email,
			Name:  displayName,
			Role:  sessdom.RoleUser,
		}
		if err := uc.profiles.SaveProfile(ctx, p); err != nil {
			log.Printf("[auth_usecase] profile create failed uid=%s: %v", id.UID, err)
		}
	}

	return id, nil
}

// Login signs the user in; the coordinator picks up the session change.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*sessdom.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrAuthInvalidArgument
	}
	return uc.gateway.Login(ctx, email, password)
}

// Logout clears the remote session; the coordinator clears the stores.
func (uc *AuthUsecase) Logout(ctx context.Context) error {
	return uc.gateway.Logout(ctx)
}
