package directory

import (
	"context"
	"log/slog"

	"leavetrack/internal/domain/auth"
)

// Provisioner is the callback that seeds balance rows for a freshly
// created user. The leave domain supplies the implementation at wiring
// time.
type Provisioner interface {
	ProvisionUser(ctx context.Context, userID string) error
}

type Service struct {
	Store       StoreAPI
	Provisioner Provisioner
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) UserByID(ctx context.Context, id string) (User, error) {
	return s.Store.UserByID(ctx, id)
}

func (s *Service) UserByEmail(ctx context.Context, email string) (User, error) {
	return s.Store.UserByEmail(ctx, email)
}

func (s *Service) ListActive(ctx context.Context) ([]User, error) {
	return s.Store.ListActive(ctx)
}

func (s *Service) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	users, err := s.Store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (s *Service) CreateUser(ctx context.Context, name, email, password, role, managerID string) (string, error) {
	if !auth.ValidRole(role) {
		return "", ErrInvalidRole
	}
	if managerID != "" {
		if _, err := s.Store.UserByID(ctx, managerID); err != nil {
			return "", err
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	id, err := s.Store.CreateUser(ctx, name, email, hash, role, managerID)
	if err != nil {
		return "", err
	}
	if s.Provisioner != nil {
		if err := s.Provisioner.ProvisionUser(ctx, id); err != nil {
			slog.Warn("balance provisioning for new user failed", "userId", id, "err", err)
		}
	}
	return id, nil
}

// UpdateManager reassigns a user's manager with cycle detection: the
// manager relation must stay a forest, so the new manager's upward chain
// may not contain the user.
func (s *Service) UpdateManager(ctx context.Context, userID, managerID string) error {
	if _, err := s.Store.UserByID(ctx, userID); err != nil {
		return err
	}
	if managerID != "" {
		if userID == managerID {
			return ErrManagerCycle
		}
		if _, err := s.Store.UserByID(ctx, managerID); err != nil {
			return err
		}
		cyclic, err := s.wouldCycle(ctx, userID, managerID)
		if err != nil {
			return err
		}
		if cyclic {
			return ErrManagerCycle
		}
	}
	return s.Store.SetManager(ctx, userID, managerID)
}

func (s *Service) SoftDelete(ctx context.Context, userID string) error {
	if _, err := s.Store.UserByID(ctx, userID); err != nil {
		return err
	}
	return s.Store.SoftDelete(ctx, userID)
}
