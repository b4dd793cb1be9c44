package provisioning

import (
	"testing"

	"github.com/google/uuid"
)

func externalUser(orgID string) ExternalUser {
	return ExternalUser{
		ID:                    "user_2abc",
		FirstName:             "Jane",
		LastName:              "Doe",
		PrimaryEmailAddressID: "idn_primary",
		EmailAddresses: []ExternalEmailAddress{
			{ID: "idn_other", EmailAddress: "jane.old@acme.test"},
			{ID: "idn_primary", EmailAddress: "jane@acme.test"},
		},
		PublicMetadata: map[string]interface{}{"organizationId": orgID},
	}
}

func TestExtractProfilePrefersPrimaryEmail(t *testing.T) {
	profile, err := ExtractProfile(externalUser(uuid.NewString()))
	if err != nil {
		t.Fatalf("ExtractProfile() error = %v", err)
	}
	if profile.Email != "jane@acme.test" {
		t.Errorf("email = %q, want primary address", profile.Email)
	}
	if profile.FirstName != "Jane" || profile.LastName != "Doe" {
		t.Errorf("name = %q %q, want Jane Doe", profile.FirstName, profile.LastName)
	}
}

func TestExtractProfileFallsBackToFirstEmail(t *testing.T) {
	ext := externalUser(uuid.NewString())
	ext.PrimaryEmailAddressID = "idn_gone"

	profile, err := ExtractProfile(ext)
	if err != nil {
		t.Fatalf("ExtractProfile() error = %v", err)
	}
	if profile.Email != "jane.old@acme.test" {
		t.Errorf("email = %q, want first available address", profile.Email)
	}
}

func TestExtractProfileMissingEmail(t *testing.T) {
	ext := externalUser(uuid.NewString())
	ext.EmailAddresses = nil

	if _, err := ExtractProfile(ext); err != ErrMissingEmail {
		t.Fatalf("ExtractProfile() error = %v, want ErrMissingEmail", err)
	}
}

func TestExtractProfileDefaultsFirstName(t *testing.T) {
	ext := externalUser(uuid.NewString())
	ext.FirstName = "   "

	profile, err := ExtractProfile(ext)
	if err != nil {
		t.Fatalf("ExtractProfile() error = %v", err)
	}
	if profile.FirstName != placeholderFirstName {
		t.Errorf("first name = %q, want placeholder", profile.FirstName)
	}
}

func TestExtractOrganizationID(t *testing.T) {
	want := uuid.New()
	got, err := ExtractOrganizationID(externalUser(want.String()))
	if err != nil {
		t.Fatalf("ExtractOrganizationID() error = %v", err)
	}
	if got != want {
		t.Errorf("org = %s, want %s", got, want)
	}
}

func TestExtractOrganizationIDFailsClosed(t *testing.T) {
	cases := []struct {
		name     string
		metadata map[string]interface{}
	}{
		{"nil metadata", nil},
		{"absent key", map[string]interface{}{"plan": "pro"}},
		{"empty value", map[string]interface{}{"organizationId": ""}},
		{"whitespace value", map[string]interface{}{"organizationId": "  "}},
		{"non-string value", map[string]interface{}{"organizationId": 42}},
		{"unparsable value", map[string]interface{}{"organizationId": "not-a-uuid"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ext := externalUser(uuid.NewString())
			ext.PublicMetadata = tc.metadata
			if _, err := ExtractOrganizationID(ext); err != ErrMissingTenantContext {
				t.Fatalf("ExtractOrganizationID() error = %v, want ErrMissingTenantContext", err)
			}
		})
	}
}
