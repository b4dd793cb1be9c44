package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// Repository is the pgx-backed implementation of the provisioning stores.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new provisioning repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `
	id, external_id, organization_id, role_id, employee_code, email,
	first_name, last_name, phone, status, is_email_verified, is_phone_verified,
	join_date, leave_date, created_at, updated_at
`

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.ExternalID,
		&user.OrganizationID,
		&user.RoleID,
		&user.EmployeeCode,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Status,
		&user.IsEmailVerified,
		&user.IsPhoneVerified,
		&user.JoinDate,
		&user.LeaveDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// GetByExternalID returns the user bound to the provider subject identifier.
func (r *Repository) GetByExternalID(ctx context.Context, externalID string) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM hr_users WHERE external_id = $1
	`, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

// Create inserts a user row with status active, join date now and the
// provider-asserted verification flags. Unique violations are translated to
// typed errors so the engine can resolve races by re-fetching or retrying.
func (r *Repository) Create(ctx context.Context, input NewUser) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO hr_users (
			external_id, organization_id, role_id, employee_code, email,
			first_name, last_name, phone, status, is_email_verified, is_phone_verified, join_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, $10, now())
		RETURNING `+userColumns+`
	`,
		input.ExternalID,
		input.OrganizationID,
		input.RoleID,
		input.EmployeeCode,
		input.Email,
		input.FirstName,
		input.LastName,
		input.Phone,
		StatusActive,
		input.IsPhoneVerified,
	))
	if err != nil {
		return User{}, translateUserUnique(err)
	}
	return user, nil
}

// UpdateProfile overwrites only the mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, externalID string, update ProfileUpdate) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE hr_users
		SET email = $2, first_name = $3, last_name = $4, phone = $5,
			is_phone_verified = $6, updated_at = now()
		WHERE external_id = $1
		RETURNING `+userColumns+`
	`, externalID, update.Email, update.FirstName, update.LastName, update.Phone, update.IsPhoneVerified))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, translateUserUnique(err)
	}
	return user, nil
}

// Terminate transitions the user to terminated and stamps the leave date.
func (r *Repository) Terminate(ctx context.Context, externalID string, leaveDate time.Time) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE hr_users
		SET status = $2, leave_date = $3, updated_at = now()
		WHERE external_id = $1
		RETURNING `+userColumns+`
	`, externalID, StatusTerminated, leaveDate))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

// FindRoleByName returns the organization's role with the given name.
func (r *Repository) FindRoleByName(ctx context.Context, organizationID uuid.UUID, name string) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `
		SELECT id, organization_id, name, level, is_active, created_at
		FROM hr_roles WHERE organization_id = $1 AND name = $2
	`, organizationID, name).Scan(
		&role.ID,
		&role.OrganizationID,
		&role.Name,
		&role.Level,
		&role.IsActive,
		&role.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, ErrNotFound
	}
	return role, err
}

// CreateRole inserts a role. A concurrent duplicate surfaces as
// ErrDuplicateRole; callers treat that as "already created" and re-fetch.
func (r *Repository) CreateRole(ctx context.Context, organizationID uuid.UUID, name string, level int) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `
		INSERT INTO hr_roles (organization_id, name, level)
		VALUES ($1, $2, $3)
		RETURNING id, organization_id, name, level, is_active, created_at
	`, organizationID, name, level).Scan(
		&role.ID,
		&role.OrganizationID,
		&role.Name,
		&role.Level,
		&role.IsActive,
		&role.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Role{}, ErrDuplicateRole
		}
		return Role{}, err
	}
	return role, nil
}

func translateUserUnique(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "external_id"):
		return ErrDuplicateExternalID
	case strings.Contains(pgErr.ConstraintName, "employee_code"):
		return ErrDuplicateEmployeeCode
	case strings.Contains(pgErr.ConstraintName, "email"):
		return ErrDuplicateEmail
	default:
		return err
	}
}
