package provisioning

import (
	"context"
	"testing"
	"time"

	"hris_backend/internal/directory"
	"hris_backend/internal/provisioning/repository"
	"hris_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeUserStore struct {
	users       map[string]repository.User
	createCalls int
	createErrs  []error
	getMisses   int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]repository.User)}
}

func (f *fakeUserStore) GetByExternalID(_ context.Context, externalID string) (repository.User, error) {
	if f.getMisses > 0 {
		f.getMisses--
		return repository.User{}, repository.ErrNotFound
	}
	user, ok := f.users[externalID]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) Create(_ context.Context, input repository.NewUser) (repository.User, error) {
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return repository.User{}, err
		}
	}
	user := repository.User{
		ID:             uuid.New(),
		ExternalID:     input.ExternalID,
		OrganizationID: input.OrganizationID,
		RoleID:         input.RoleID,
		EmployeeCode:   input.EmployeeCode,
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		Status:         repository.StatusActive,
		JoinDate:       time.Now(),
	}
	f.users[input.ExternalID] = user
	return user, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, externalID string, update repository.ProfileUpdate) (repository.User, error) {
	user, ok := f.users[externalID]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	user.Email = update.Email
	user.FirstName = update.FirstName
	user.LastName = update.LastName
	user.Phone = update.Phone
	f.users[externalID] = user
	return user, nil
}

func (f *fakeUserStore) Terminate(_ context.Context, externalID string, leaveDate time.Time) (repository.User, error) {
	user, ok := f.users[externalID]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	user.Status = repository.StatusTerminated
	user.LeaveDate = &leaveDate
	f.users[externalID] = user
	return user, nil
}

type fakeRoleStore struct {
	roles       map[string]repository.Role
	createErr   error
	createCalls int
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{roles: make(map[string]repository.Role)}
}

func roleKey(orgID uuid.UUID, name string) string {
	return orgID.String() + "/" + name
}

func (f *fakeRoleStore) FindRoleByName(_ context.Context, orgID uuid.UUID, name string) (repository.Role, error) {
	role, ok := f.roles[roleKey(orgID, name)]
	if !ok {
		return repository.Role{}, repository.ErrNotFound
	}
	return role, nil
}

func (f *fakeRoleStore) CreateRole(_ context.Context, orgID uuid.UUID, name string, level int) (repository.Role, error) {
	f.createCalls++
	if f.createErr != nil {
		return repository.Role{}, f.createErr
	}
	role := repository.Role{ID: uuid.New(), OrganizationID: orgID, Name: name, Level: level, IsActive: true}
	f.roles[roleKey(orgID, name)] = role
	return role, nil
}

type fakeDeliveryStore struct {
	records [][3]string
}

func (f *fakeDeliveryStore) Record(_ context.Context, eventID, eventType, outcome string) error {
	f.records = append(f.records, [3]string{eventID, eventType, outcome})
	return nil
}

func (f *fakeDeliveryStore) PurgeOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeDirectory struct {
	orgs map[uuid.UUID]directory.Organization
}

func (f *fakeDirectory) FindOrganization(_ context.Context, id uuid.UUID) (directory.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return directory.Organization{}, directory.ErrNotFound
	}
	return org, nil
}

func (f *fakeDirectory) IsOrganizationActive(_ context.Context, id uuid.UUID) (bool, error) {
	org, ok := f.orgs[id]
	return ok && org.IsActive, nil
}

type engineFixture struct {
	service *Service
	users   *fakeUserStore
	roles   *fakeRoleStore
	orgID   uuid.UUID
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	orgID := uuid.New()
	users := newFakeUserStore()
	roles := newFakeRoleStore()
	dir := &fakeDirectory{orgs: map[uuid.UUID]directory.Organization{
		orgID: {ID: orgID, Name: "Acme", IsActive: true},
	}}
	svc := NewService(users, roles, &fakeDeliveryStore{}, dir, nil, nil, logger.New("test"))
	return &engineFixture{service: svc, users: users, roles: roles, orgID: orgID}
}

func TestHandleUserCreatedProvisionsUser(t *testing.T) {
	fx := newEngineFixture(t)

	user, err := fx.service.HandleUserCreated(context.Background(), externalUser(fx.orgID.String()))
	if err != nil {
		t.Fatalf("HandleUserCreated() error = %v", err)
	}
	if user.OrganizationID != fx.orgID {
		t.Errorf("org = %s, want %s", user.OrganizationID, fx.orgID)
	}
	if user.EmployeeCode == "" {
		t.Error("employee code not generated")
	}
	if user.Status != repository.StatusActive {
		t.Errorf("status = %q, want active", user.Status)
	}

	role, err := fx.roles.FindRoleByName(context.Background(), fx.orgID, repository.DefaultRoleName)
	if err != nil {
		t.Fatalf("default role not created: %v", err)
	}
	if user.RoleID != role.ID {
		t.Error("user not bound to the default role")
	}
}

func TestHandleUserCreatedIsIdempotent(t *testing.T) {
	fx := newEngineFixture(t)
	ext := externalUser(fx.orgID.String())

	first, err := fx.service.HandleUserCreated(context.Background(), ext)
	if err != nil {
		t.Fatalf("first HandleUserCreated() error = %v", err)
	}
	second, err := fx.service.HandleUserCreated(context.Background(), ext)
	if err != nil {
		t.Fatalf("second HandleUserCreated() error = %v", err)
	}

	if first.ID != second.ID {
		t.Error("retry produced a different user")
	}
	if fx.users.createCalls != 1 {
		t.Errorf("create calls = %d, want 1", fx.users.createCalls)
	}
}

func TestHandleUserCreatedMissingEmail(t *testing.T) {
	fx := newEngineFixture(t)
	ext := externalUser(fx.orgID.String())
	ext.EmailAddresses = nil

	if _, err := fx.service.HandleUserCreated(context.Background(), ext); err != ErrMissingEmail {
		t.Fatalf("HandleUserCreated() error = %v, want ErrMissingEmail", err)
	}
	if fx.users.createCalls != 0 {
		t.Error("user created despite missing email")
	}
}

func TestHandleUserCreatedMissingTenantContext(t *testing.T) {
	fx := newEngineFixture(t)
	ext := externalUser(fx.orgID.String())
	ext.PublicMetadata = nil

	if _, err := fx.service.HandleUserCreated(context.Background(), ext); err != ErrMissingTenantContext {
		t.Fatalf("HandleUserCreated() error = %v, want ErrMissingTenantContext", err)
	}
}

func TestHandleUserCreatedUnknownOrganization(t *testing.T) {
	fx := newEngineFixture(t)
	ext := externalUser(uuid.NewString())

	if _, err := fx.service.HandleUserCreated(context.Background(), ext); err != ErrUnknownOrganization {
		t.Fatalf("HandleUserCreated() error = %v, want ErrUnknownOrganization", err)
	}
}

func TestHandleUserCreatedInactiveOrganization(t *testing.T) {
	orgID := uuid.New()
	users := newFakeUserStore()
	dir := &fakeDirectory{orgs: map[uuid.UUID]directory.Organization{
		orgID: {ID: orgID, Name: "Mothballed", IsActive: false},
	}}
	svc := NewService(users, newFakeRoleStore(), &fakeDeliveryStore{}, dir, nil, nil, logger.New("test"))

	if _, err := svc.HandleUserCreated(context.Background(), externalUser(orgID.String())); err != ErrUnknownOrganization {
		t.Fatalf("HandleUserCreated() error = %v, want ErrUnknownOrganization", err)
	}
	if users.createCalls != 0 {
		t.Error("user created under an inactive organization")
	}
}

func TestHandleUserCreatedRetriesEmployeeCode(t *testing.T) {
	fx := newEngineFixture(t)
	fx.users.createErrs = []error{repository.ErrDuplicateEmployeeCode, repository.ErrDuplicateEmployeeCode}

	user, err := fx.service.HandleUserCreated(context.Background(), externalUser(fx.orgID.String()))
	if err != nil {
		t.Fatalf("HandleUserCreated() error = %v", err)
	}
	if user.EmployeeCode == "" {
		t.Error("employee code not generated after retries")
	}
	if fx.users.createCalls != 3 {
		t.Errorf("create calls = %d, want 3", fx.users.createCalls)
	}
}

func TestHandleUserCreatedCodeRetriesExhausted(t *testing.T) {
	fx := newEngineFixture(t)
	for i := 0; i < maxCodeAttempts; i++ {
		fx.users.createErrs = append(fx.users.createErrs, repository.ErrDuplicateEmployeeCode)
	}

	if _, err := fx.service.HandleUserCreated(context.Background(), externalUser(fx.orgID.String())); err != ErrCodeGenerationExhausted {
		t.Fatalf("HandleUserCreated() error = %v, want ErrCodeGenerationExhausted", err)
	}
	if fx.users.createCalls != maxCodeAttempts {
		t.Errorf("create calls = %d, want %d", fx.users.createCalls, maxCodeAttempts)
	}
}

func TestHandleUserCreatedConcurrentDuplicate(t *testing.T) {
	fx := newEngineFixture(t)
	ext := externalUser(fx.orgID.String())

	// Simulate a concurrent delivery winning the insert race: the pre-check
	// misses, the insert reports the subject already exists, and the re-fetch
	// sees the winner's row.
	winner := repository.User{ID: uuid.New(), ExternalID: ext.ID, OrganizationID: fx.orgID}
	fx.users.users[ext.ID] = winner
	fx.users.getMisses = 1
	fx.users.createErrs = []error{repository.ErrDuplicateExternalID}

	user, err := fx.service.HandleUserCreated(context.Background(), ext)
	if err != nil {
		t.Fatalf("HandleUserCreated() error = %v", err)
	}
	if user.ID != winner.ID {
		t.Error("expected the concurrently created user to be returned")
	}
}

func TestHandleUserCreatedRoleRace(t *testing.T) {
	fx := newEngineFixture(t)
	ext := externalUser(fx.orgID.String())

	// CreateRole loses the race; the role exists by the re-fetch.
	existing := repository.Role{ID: uuid.New(), OrganizationID: fx.orgID, Name: repository.DefaultRoleName, Level: 1}
	fx.roles.roles[roleKey(fx.orgID, repository.DefaultRoleName)] = existing
	fx.roles.createErr = repository.ErrDuplicateRole

	user, err := fx.service.HandleUserCreated(context.Background(), ext)
	if err != nil {
		t.Fatalf("HandleUserCreated() error = %v", err)
	}
	if user.RoleID != existing.ID {
		t.Error("expected the existing default role to be reused")
	}
}

func TestHandleUserUpdatedUnknownSubjectIsNoop(t *testing.T) {
	fx := newEngineFixture(t)

	user, err := fx.service.HandleUserUpdated(context.Background(), externalUser(fx.orgID.String()))
	if err != nil {
		t.Fatalf("HandleUserUpdated() error = %v", err)
	}
	if user.ID != uuid.Nil {
		t.Error("no-op update returned a user")
	}
	if fx.users.createCalls != 0 {
		t.Error("update created a user")
	}
}

func TestHandleUserUpdatedOverwritesProfile(t *testing.T) {
	fx := newEngineFixture(t)
	ext := externalUser(fx.orgID.String())

	created, err := fx.service.HandleUserCreated(context.Background(), ext)
	if err != nil {
		t.Fatalf("HandleUserCreated() error = %v", err)
	}

	ext.FirstName = "Janet"
	ext.EmailAddresses = []ExternalEmailAddress{{ID: "idn_primary", EmailAddress: "janet@acme.test"}}

	updated, err := fx.service.HandleUserUpdated(context.Background(), ext)
	if err != nil {
		t.Fatalf("HandleUserUpdated() error = %v", err)
	}
	if updated.ID != created.ID {
		t.Error("update changed user identity")
	}
	if updated.FirstName != "Janet" || updated.Email != "janet@acme.test" {
		t.Errorf("profile not overwritten: %q %q", updated.FirstName, updated.Email)
	}
	if updated.OrganizationID != created.OrganizationID {
		t.Error("update must never move a user across organizations")
	}
}

func TestHandleUserDeletedSoftTerminates(t *testing.T) {
	fx := newEngineFixture(t)
	ext := externalUser(fx.orgID.String())

	if _, err := fx.service.HandleUserCreated(context.Background(), ext); err != nil {
		t.Fatalf("HandleUserCreated() error = %v", err)
	}

	if err := fx.service.HandleUserDeleted(context.Background(), ext.ID); err != nil {
		t.Fatalf("HandleUserDeleted() error = %v", err)
	}

	user, err := fx.users.GetByExternalID(context.Background(), ext.ID)
	if err != nil {
		t.Fatalf("terminated user row vanished: %v", err)
	}
	if user.Status != repository.StatusTerminated {
		t.Errorf("status = %q, want terminated", user.Status)
	}
	if user.LeaveDate == nil {
		t.Error("leave date not stamped")
	}
}

func TestHandleUserDeletedUnknownSubjectIsNoop(t *testing.T) {
	fx := newEngineFixture(t)

	if err := fx.service.HandleUserDeleted(context.Background(), "user_never_seen"); err != nil {
		t.Fatalf("HandleUserDeleted() error = %v", err)
	}
}
