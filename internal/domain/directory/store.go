package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"leavetrack/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const userColumns = "id, name, email, role, COALESCE(manager_id::text, ''), created_at"

func (s *Store) UserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE id = $1 AND is_deleted = false
  `, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.ManagerID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE email = $1 AND is_deleted = false
  `, email).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.ManagerID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) PasswordHashByEmail(ctx context.Context, email string) (string, string, error) {
	var id, hash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, password_hash
    FROM users
    WHERE email = $1 AND is_deleted = false
  `, email).Scan(&id, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, hash, err
}

func (s *Store) ListActive(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE is_deleted = false
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.ManagerID, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash, role, managerID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role, manager_id)
    VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid)
    RETURNING id
  `, name, email, passwordHash, role, managerID).Scan(&id)
	return id, err
}

func (s *Store) SetManager(ctx context.Context, userID, managerID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE users
    SET manager_id = NULLIF($2, '')::uuid
    WHERE id = $1 AND is_deleted = false
  `, userID, managerID)
	return err
}

func (s *Store) SoftDelete(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE users
    SET is_deleted = true
    WHERE id = $1 AND is_deleted = false
  `, userID)
	return err
}
