// Package repository implements tenant-scoped employee reads. Every query in
// this package carries the caller's organization in its WHERE clause; there is
// no unscoped variant.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Employee is a directory listing row, leaner than the full profile.
type Employee struct {
	ID           uuid.UUID
	ExternalID   string
	EmployeeCode string
	Email        string
	FirstName    string
	LastName     string
	Phone        *string
	Department   *string
	Designation  *string
	RoleName     string
	Status       string
	CreatedAt    time.Time
}

// ListFilter narrows an employee listing. Zero values mean no filtering.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

const defaultListLimit = 50
const maxListLimit = 200

// Repository reads employees for the listing endpoints.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new employees repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const listEmployeesByOrganizationQuery = `
	SELECT u.id, u.external_id, u.employee_code, u.email, u.first_name,
		u.last_name, u.phone, u.department, u.designation, r.name, u.status,
		u.created_at
	FROM hr_users u
	JOIN hr_roles r ON r.id = u.role_id
	WHERE u.organization_id = $1
		AND ($2 = '' OR u.status = $2)
	ORDER BY u.last_name, u.first_name
	LIMIT $3 OFFSET $4
`

const countEmployeesByOrganizationQuery = `
	SELECT count(*)
	FROM hr_users u
	WHERE u.organization_id = $1
		AND ($2 = '' OR u.status = $2)
`

// ListByOrganization returns employees of a single organization.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID, filter ListFilter) ([]Employee, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, listEmployeesByOrganizationQuery, orgID, filter.Status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEmployees(rows)
}

// CountByOrganization returns the number of matching employees for paging.
func (r *Repository) CountByOrganization(ctx context.Context, orgID uuid.UUID, filter ListFilter) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, countEmployeesByOrganizationQuery, orgID, filter.Status).Scan(&total)
	return total, err
}

func scanEmployees(rows pgx.Rows) ([]Employee, error) {
	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(
			&e.ID,
			&e.ExternalID,
			&e.EmployeeCode,
			&e.Email,
			&e.FirstName,
			&e.LastName,
			&e.Phone,
			&e.Department,
			&e.Designation,
			&e.RoleName,
			&e.Status,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
