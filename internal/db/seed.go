package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"leavetrack/internal/domain/auth"
	"leavetrack/internal/platform/config"
)

type seedType struct {
	Name          string
	MaxPerYear    float64
	MultiApprover int
	AutoApprove   bool
	Exempt        bool
	CarryForward  bool
}

var seedTypes = []seedType{
	{Name: "Casual Leave", MaxPerYear: 10, MultiApprover: 1, CarryForward: true},
	{Name: "Sick Leave", MaxPerYear: 14, MultiApprover: 1, CarryForward: true},
	{Name: "Paid Leave", MaxPerYear: 16, MultiApprover: 2, CarryForward: true},
	{Name: "Maternity Leave", MaxPerYear: 20, MultiApprover: 3},
	{Name: "Paternity Leave", MaxPerYear: 20, MultiApprover: 3},
	{Name: "Emergency Leave", MaxPerYear: 15, MultiApprover: 0, AutoApprove: true, Exempt: true},
	{Name: "Loss of Pay", MaxPerYear: 20, MultiApprover: 1, Exempt: true},
}

type seedUser struct {
	Name    string
	Email   string
	Role    string
	Manager string // email of manager, resolved after insert
}

var seedUsers = []seedUser{
	{Name: "Admin One", Email: "admin@example.com", Role: auth.RoleAdmin},
	{Name: "HR One", Email: "hr1@example.com", Role: auth.RoleHR, Manager: "admin@example.com"},
	{Name: "Manager One", Email: "manager1@example.com", Role: auth.RoleManager, Manager: "hr1@example.com"},
	{Name: "Manager Two", Email: "manager2@example.com", Role: auth.RoleManager, Manager: "hr1@example.com"},
	{Name: "Employee One", Email: "employee1@example.com", Role: auth.RoleEmployee, Manager: "manager1@example.com"},
	{Name: "Employee Two", Email: "employee2@example.com", Role: auth.RoleEmployee, Manager: "manager2@example.com"},
}

// Seed loads the demo leave catalogue and user chain on an empty
// database. Every statement is keyed on a natural identifier, so re-runs
// are no-ops and a partially seeded database heals on the next start.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	for _, lt := range seedTypes {
		_, err := pool.Exec(ctx, `
      INSERT INTO leave_types (name, max_per_year, multi_approver, auto_approve, exempt, carry_forward)
      SELECT $1, $2, $3, $4, $5, $6
      WHERE NOT EXISTS (SELECT 1 FROM leave_types WHERE name = $1)
    `, lt.Name, lt.MaxPerYear, lt.MultiApprover, lt.AutoApprove, lt.Exempt, lt.CarryForward)
		if err != nil {
			return err
		}
	}

	password := cfg.SeedAdminPassword
	if password == "" {
		password = "changeme"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	for _, u := range seedUsers {
		email := u.Email
		if u.Role == auth.RoleAdmin && cfg.SeedAdminEmail != "" {
			email = cfg.SeedAdminEmail
		}
		_, err := pool.Exec(ctx, `
      INSERT INTO users (name, email, password_hash, role)
      SELECT $1, $2, $3, $4
      WHERE NOT EXISTS (SELECT 1 FROM users WHERE email = $2)
    `, u.Name, email, hash, u.Role)
		if err != nil {
			return err
		}
	}

	// Manager links go in a second pass so ordering never matters.
	for _, u := range seedUsers {
		if u.Manager == "" {
			continue
		}
		email := u.Email
		manager := u.Manager
		if manager == "admin@example.com" && cfg.SeedAdminEmail != "" {
			manager = cfg.SeedAdminEmail
		}
		_, err := pool.Exec(ctx, `
      UPDATE users
      SET manager_id = (SELECT id FROM users WHERE email = $2)
      WHERE email = $1 AND manager_id IS NULL
    `, email, manager)
		if err != nil {
			return err
		}
	}

	year := time.Now().Year()
	tag, err := pool.Exec(ctx, `
    INSERT INTO leave_balances (user_id, leave_type_id, year, balance, used)
    SELECT u.id, lt.id, $1, lt.max_per_year, 0
    FROM users u
    CROSS JOIN leave_types lt
    WHERE u.is_deleted = false AND lt.is_deleted = false
    ON CONFLICT (user_id, leave_type_id, year) DO NOTHING
  `, year)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		slog.Info("seeded leave balances", "rows", tag.RowsAffected(), "year", year)
	}
	return nil
}
