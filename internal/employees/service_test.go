package employees

import (
	"context"
	"testing"

	"hris_backend/internal/employees/repository"
	"hris_backend/platform/apperr"
	"hris_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	byOrg map[uuid.UUID][]repository.Employee
}

func (f *fakeStore) ListByOrganization(_ context.Context, orgID uuid.UUID, filter repository.ListFilter) ([]repository.Employee, error) {
	var out []repository.Employee
	for _, e := range f.byOrg[orgID] {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeStore) CountByOrganization(ctx context.Context, orgID uuid.UUID, filter repository.ListFilter) (int64, error) {
	employees, _ := f.ListByOrganization(ctx, orgID, filter)
	return int64(len(employees)), nil
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := NewService(&fakeStore{}, logger.New("test"))

	_, err := svc.List(context.Background(), uuid.New(), repository.ListFilter{Status: "fired"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("List() error = %v, want validation", err)
	}
}

func TestListScopesToOrganization(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()
	store := &fakeStore{byOrg: map[uuid.UUID][]repository.Employee{
		orgA: {
			{ID: uuid.New(), Email: "a1@acme.test", Status: "active"},
			{ID: uuid.New(), Email: "a2@acme.test", Status: "terminated"},
		},
		orgB: {
			{ID: uuid.New(), Email: "b1@globex.test", Status: "active"},
		},
	}}
	svc := NewService(store, logger.New("test"))

	listing, err := svc.List(context.Background(), orgA, repository.ListFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if listing.Total != 2 {
		t.Fatalf("Total = %d, want 2", listing.Total)
	}
	for _, e := range listing.Employees {
		if e.Email == "b1@globex.test" {
			t.Fatal("listing leaked an employee from another organization")
		}
	}

	active, err := svc.List(context.Background(), orgA, repository.ListFilter{Status: "active"})
	if err != nil {
		t.Fatalf("List(active) error = %v", err)
	}
	if active.Total != 1 {
		t.Fatalf("active Total = %d, want 1", active.Total)
	}
}
