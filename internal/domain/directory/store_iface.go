package directory

import "context"

type StoreAPI interface {
	UserByID(ctx context.Context, id string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	PasswordHashByEmail(ctx context.Context, email string) (string, string, error)
	ListActive(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, name, email, passwordHash, role, managerID string) (string, error)
	SetManager(ctx context.Context, userID, managerID string) error
	SoftDelete(ctx context.Context, userID string) error
}
