package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"boardinghouse/internal/auth"
	"boardinghouse/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// SetGoogleID links a Google account on first sign-in.
	SetGoogleID(ctx context.Context, userID, googleID string) error
	ListLandlords(ctx context.Context) ([]model.UserSummary, error)
	// ListTenantsByLandlord returns tenants living in the landlord's rooms.
	ListTenantsByLandlord(ctx context.Context, landlordID string) ([]model.UserSummary, error)
}

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, name, email, password_hash, google_id, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row, extra ...any) (*model.User, error) {
	var u model.User
	var role string
	dest := append([]any{&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GoogleID, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	parsed, err := auth.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	u.Role = parsed
	return &u, nil
}

func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role.String(), u.IsActive).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return conflictOr(err, "inserting user", "email already exists")
	}
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}
	return u, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch user by email: %w", err)
	}
	return u, nil
}

func (r *userRepo) SetGoogleID(ctx context.Context, userID, googleID string) error {
	query := `UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1 AND google_id IS NULL`
	if _, err := r.db.Exec(ctx, query, userID, googleID); err != nil {
		return conflictOr(err, "linking google account", "google account already linked to another user")
	}
	return nil
}

func (r *userRepo) ListLandlords(ctx context.Context) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.google_id, u.role, u.is_active, u.created_at, u.updated_at,
		       (SELECT COUNT(*) FROM rooms r WHERE r.landlord_id = u.id) AS rooms_owned
		FROM users u
		WHERE u.role = 'LANDLORD'
		ORDER BY u.created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query landlords: %w", err)
	}
	defer rows.Close()

	out := []model.UserSummary{}
	for rows.Next() {
		var owned int
		u, err := scanUser(rows, &owned)
		if err != nil {
			return nil, fmt.Errorf("scan landlord: %w", err)
		}
		out = append(out, model.UserSummary{User: *u, RoomsOwned: owned})
	}
	return out, rows.Err()
}

func (r *userRepo) ListTenantsByLandlord(ctx context.Context, landlordID string) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.google_id, u.role, u.is_active, u.created_at, u.updated_at,
		       r.room_number
		FROM users u
		JOIN rooms r ON r.tenant_id = u.id
		WHERE u.role = 'TENANT' AND r.landlord_id = $1
		ORDER BY u.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, landlordID)
	if err != nil {
		return nil, fmt.Errorf("query tenants for landlord %s: %w", landlordID, err)
	}
	defer rows.Close()

	out := []model.UserSummary{}
	for rows.Next() {
		var roomNumber string
		u, err := scanUser(rows, &roomNumber)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, model.UserSummary{User: *u, RoomNumber: &roomNumber})
	}
	return out, rows.Err()
}
