package repository

import (
	"context"
	"errors"
	"fmt"

	"hris_backend/internal/directory"
	"hris_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound aliases the directory package sentinel so callers holding only
// the repository can still match it.
var ErrNotFound = directory.ErrNotFound

const pgUniqueViolation = "23505"

// Repository persists organizations. Organizations are only ever created via
// the administrative path; user-facing flows never insert here.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new directory repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const findOrganizationQuery = `
	SELECT id, name, contact_email, is_active, created_at, updated_at
	FROM hr_organizations WHERE id = $1
`

// FindOrganization returns the organization by identifier.
func (r *Repository) FindOrganization(ctx context.Context, id uuid.UUID) (directory.Organization, error) {
	var org directory.Organization
	err := r.pool.QueryRow(ctx, findOrganizationQuery, id).Scan(
		&org.ID,
		&org.Name,
		&org.ContactEmail,
		&org.IsActive,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return directory.Organization{}, ErrNotFound
	}
	return org, err
}

// IsOrganizationActive reports whether the organization exists and is active.
func (r *Repository) IsOrganizationActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx, `
		SELECT is_active FROM hr_organizations WHERE id = $1
	`, id).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return active, nil
}

// Create inserts a new organization.
func (r *Repository) Create(ctx context.Context, name, contactEmail string) (directory.Organization, error) {
	var org directory.Organization
	err := r.pool.QueryRow(ctx, `
		INSERT INTO hr_organizations (name, contact_email)
		VALUES ($1, $2)
		RETURNING id, name, contact_email, is_active, created_at, updated_at
	`, name, contactEmail).Scan(
		&org.ID,
		&org.Name,
		&org.ContactEmail,
		&org.IsActive,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return directory.Organization{}, apperr.Conflict("an organization with this contact email already exists")
		}
		return directory.Organization{}, apperr.Internal(fmt.Sprintf("create organization failed: %v", err))
	}
	return org, nil
}

// List returns every organization, newest first. The directory is expected to
// stay small (one row per tenant) so no pagination yet.
func (r *Repository) List(ctx context.Context) ([]directory.Organization, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, contact_email, is_active, created_at, updated_at
		FROM hr_organizations ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []directory.Organization
	for rows.Next() {
		var org directory.Organization
		if err := rows.Scan(
			&org.ID,
			&org.Name,
			&org.ContactEmail,
			&org.IsActive,
			&org.CreatedAt,
			&org.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// SetActive flips the activity flag. Deactivation, not deletion, is how an
// organization's access is cut off; rows are never removed while users
// reference them.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE hr_organizations SET is_active = $2, updated_at = now()
		WHERE id = $1
	`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Compile-time check that Repository satisfies the directory read API.
var _ directory.Directory = (*Repository)(nil)
