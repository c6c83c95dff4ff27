package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pratham-8123/vaultbox/internal/apperrors"
)

func TestResolveEffectiveOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	access := NewAccessResolver(f.users)

	// Blank target means "act as yourself", whatever the role.
	if got, err := access.ResolveEffectiveOwner(ctx, f.alice, ""); err != nil || got != f.alice.ID {
		t.Errorf("self resolve = (%v, %v), want caller id", got, err)
	}
	if got, err := access.ResolveEffectiveOwner(ctx, f.admin, ""); err != nil || got != f.admin.ID {
		t.Errorf("admin self resolve = (%v, %v), want caller id", got, err)
	}

	bob := f.addUser("bob", "bob@example.com")

	if _, err := access.ResolveEffectiveOwner(ctx, f.alice, bob.ID.String()); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("non-admin target: err = %v, want ErrPermissionDenied", err)
	}
	if got, err := access.ResolveEffectiveOwner(ctx, f.admin, bob.ID.String()); err != nil || got != bob.ID {
		t.Errorf("admin target = (%v, %v), want bob", got, err)
	}
	if _, err := access.ResolveEffectiveOwner(ctx, f.admin, "garbage"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("malformed target: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := access.ResolveEffectiveOwner(ctx, f.admin, uuid.NewString()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("unknown target: err = %v, want ErrNotFound", err)
	}
}

func TestCheckEntityAccess(t *testing.T) {
	f := newFixture()
	access := NewAccessResolver(f.users)
	other := uuid.New()

	if err := access.CheckEntityAccess(f.alice, f.alice.ID); err != nil {
		t.Errorf("own row: %v", err)
	}
	if err := access.CheckEntityAccess(f.alice, other); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign row: err = %v, want ErrPermissionDenied", err)
	}
	if err := access.CheckEntityAccess(f.admin, other); err != nil {
		t.Errorf("admin on foreign row: %v", err)
	}
}

func TestOwnerEmailFallback(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if got := ownerEmail(ctx, f.users, f.alice.ID); got != "alice@example.com" {
		t.Errorf("known owner = %q", got)
	}
	if got := ownerEmail(ctx, f.users, uuid.New()); got != "Unknown" {
		t.Errorf("missing owner = %q, want Unknown", got)
	}
}

func TestListUsersAdminOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.userSvc.List(ctx, f.alice); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("non-admin list: err = %v, want ErrPermissionDenied", err)
	}

	users, err := f.userSvc.List(ctx, f.admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}
	// Email-ascending, passwords never exposed in the payload shape.
	if users[0].Email != "admin@example.com" || users[1].Email != "alice@example.com" {
		t.Errorf("order = [%s %s], want email ascending", users[0].Email, users[1].Email)
	}
}
