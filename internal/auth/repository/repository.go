package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no provisioned user matches the lookup.
var ErrNotFound = errors.New("not found")

// StatusActive is the only user status allowed to exchange credentials.
const StatusActive = "active"

// Repository reads user profiles for credential exchange and the /users/me
// surface. Writes happen exclusively through the provisioning engine.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Profile is a provisioned user joined with role and organization names.
type Profile struct {
	UserID           uuid.UUID
	ExternalID       string
	OrganizationID   uuid.UUID
	OrganizationName string
	EmployeeCode     string
	Email            string
	FirstName        string
	LastName         string
	RoleName         string
	Status           string
	Department       *string
	Designation      *string
}

const profileQuery = `
	SELECT u.id, u.external_id, u.organization_id, o.name, u.employee_code,
		u.email, u.first_name, u.last_name, r.name, u.status,
		u.department, u.designation
	FROM hr_users u
	JOIN hr_organizations o ON o.id = u.organization_id
	JOIN hr_roles r ON r.id = u.role_id
`

func (r *Repository) scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.UserID,
		&p.ExternalID,
		&p.OrganizationID,
		&p.OrganizationName,
		&p.EmployeeCode,
		&p.Email,
		&p.FirstName,
		&p.LastName,
		&p.RoleName,
		&p.Status,
		&p.Department,
		&p.Designation,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

// GetByExternalID returns the profile bound to the provider subject.
func (r *Repository) GetByExternalID(ctx context.Context, externalID string) (Profile, error) {
	return r.scanProfile(r.pool.QueryRow(ctx, profileQuery+` WHERE u.external_id = $1`, externalID))
}

// GetByID returns the profile for a local user identifier.
func (r *Repository) GetByID(ctx context.Context, userID uuid.UUID) (Profile, error) {
	return r.scanProfile(r.pool.QueryRow(ctx, profileQuery+` WHERE u.id = $1`, userID))
}
