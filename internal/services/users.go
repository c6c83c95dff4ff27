package services

import (
	"context"
	"fmt"

	"github.com/pratham-8123/vaultbox/internal/apperrors"
)

// UserService exposes the user directory to the admin UI.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// List returns every registered user. Admin only; it backs the act-as
// user selector.
func (s *UserService) List(ctx context.Context, caller Caller) ([]UserInfo, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can list users", apperrors.ErrPermissionDenied)
	}

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, UserInfo{
			ID:        u.ID,
			Email:     u.Email,
			Username:  u.Username,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	return infos, nil
}
