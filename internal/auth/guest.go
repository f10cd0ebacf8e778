package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/timeflowhq/timeflow/internal/models"
)

// GuestProvisioner lazily creates guest identities: clients that never
// registered still get a stable, persisted user record on first contact.
// This preserves the auto-created-identity behavior of the original app,
// adapted to a server: the guest receives a token and keeps the same
// account as long as the token is presented.
type GuestProvisioner struct {
	storage UserStorage
}

// NewGuestProvisioner creates a guest provisioner.
func NewGuestProvisioner(storage UserStorage) *GuestProvisioner {
	return &GuestProvisioner{storage: storage}
}

// Provision creates and persists a fresh guest account.
func (p *GuestProvisioner) Provision(ctx context.Context) (*models.User, error) {
	suffix := uuid.New().String()[:8]
	user := models.NewUser(
		fmt.Sprintf("guest-%s@timeflow.local", suffix),
		"Convidado",
		"",
	)
	user.Guest = true

	if err := p.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to provision guest: %w", err)
	}
	return user, nil
}
