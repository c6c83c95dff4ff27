package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
)

// AccessResolver decides which user's data an operation touches and
// enforces the self-vs-admin rule for cross-user access.
type AccessResolver struct {
	users UserStore
}

func NewAccessResolver(users UserStore) *AccessResolver {
	return &AccessResolver{users: users}
}

// ResolveEffectiveOwner returns the owner id an operation acts on.
// An empty target means the caller themselves. A non-empty target is
// admin-only and must name an existing user.
func (a *AccessResolver) ResolveEffectiveOwner(ctx context.Context, caller Caller, targetUserID string) (uuid.UUID, error) {
	if targetUserID == "" {
		return caller.ID, nil
	}

	if !caller.IsAdmin() {
		return uuid.Nil, fmt.Errorf("%w: only admins can act on other users' data", apperrors.ErrPermissionDenied)
	}

	target, err := uuid.Parse(targetUserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user id %q", apperrors.ErrInvalidArgument, targetUserID)
	}

	exists, err := a.users.ExistsByID(ctx, target)
	if err != nil {
		return uuid.Nil, err
	}
	if !exists {
		return uuid.Nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, target)
	}

	return target, nil
}

// CheckEntityAccess allows admins everywhere and owners on their own rows.
func (a *AccessResolver) CheckEntityAccess(caller Caller, entityOwnerID uuid.UUID) error {
	if caller.IsAdmin() {
		return nil
	}
	if entityOwnerID != caller.ID {
		return fmt.Errorf("%w: you don't have access to this resource", apperrors.ErrPermissionDenied)
	}
	return nil
}

// ownerEmail resolves a display email, falling back to "Unknown" when the
// owner row is gone.
func ownerEmail(ctx context.Context, users UserStore, ownerID uuid.UUID) string {
	user, err := users.FindByID(ctx, ownerID)
	if err != nil {
		return "Unknown"
	}
	return user.Email
}
