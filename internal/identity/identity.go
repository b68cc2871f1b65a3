package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/internal/store"
	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// ErrUnauthenticated is returned when no user is signed in.
var ErrUnauthenticated = errors.New("identity: not authenticated")

// Provider resolves the locally signed-in user and applies partial updates
// to their record.
type Provider struct {
	store      *store.Store
	activeUser string
}

func NewProvider(s *store.Store, activeUser string) *Provider {
	return &Provider{store: s, activeUser: strings.TrimSpace(activeUser)}
}

// CurrentUser returns the active user's record, creating a bare one on
// first contact.
func (p *Provider) CurrentUser(ctx context.Context) (*models.User, error) {
	if p.activeUser == "" {
		return nil, ErrUnauthenticated
	}
	user, err := p.store.GetUser(ctx, p.activeUser)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	fresh := models.User{Email: p.activeUser}
	if err := p.store.UpsertUser(ctx, fresh); err != nil {
		return nil, fmt.Errorf("create user record: %w", err)
	}
	return &fresh, nil
}

// UpdateCurrentUser applies the non-nil fields of update to the active user
// and returns the stored result.
func (p *Provider) UpdateCurrentUser(ctx context.Context, update models.UserUpdate) (*models.User, error) {
	user, err := p.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.ProfileCompleted != nil {
		user.ProfileCompleted = *update.ProfileCompleted
	}
	if update.ProfileCompletedAt != nil {
		user.ProfileCompletedAt = *update.ProfileCompletedAt
	}
	if update.InvestmentProfile != nil {
		user.InvestmentProfile = update.InvestmentProfile
	}

	if err := p.store.UpsertUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// Email returns the active user's email without touching the store.
func (p *Provider) Email() (string, error) {
	if p.activeUser == "" {
		return "", ErrUnauthenticated
	}
	return p.activeUser, nil
}
