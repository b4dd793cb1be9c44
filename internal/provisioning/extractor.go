package provisioning

import (
	"strings"

	"hris_backend/platform/phone"

	"github.com/google/uuid"
)

// ExternalUser is the identity provider's user record as delivered in event
// payloads. Only the handful of fields this subsystem needs are modelled; the
// metadata bag stays open-ended and is validated explicitly on extraction.
type ExternalUser struct {
	ID                    string                 `json:"id"`
	FirstName             string                 `json:"first_name"`
	LastName              string                 `json:"last_name"`
	PrimaryEmailAddressID string                 `json:"primary_email_address_id"`
	EmailAddresses        []ExternalEmailAddress `json:"email_addresses"`
	PhoneNumbers          []ExternalPhoneNumber  `json:"phone_numbers"`
	PublicMetadata        map[string]interface{} `json:"public_metadata"`
}

// ExternalEmailAddress is one of the provider-held addresses for a subject.
type ExternalEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// ExternalPhoneNumber is one of the provider-held phone numbers for a subject.
type ExternalPhoneNumber struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
}

const placeholderFirstName = "Unknown"

// ExtractedProfile is the narrow, validated view of an external user that the
// provisioning engine works with.
type ExtractedProfile struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

// ExtractProfile pulls email, names and phone out of the external record.
// The provider's designated primary address wins; otherwise the first
// available one is used. A missing email fails closed with ErrMissingEmail.
// A missing first name is defaulted to a placeholder, never an error.
func ExtractProfile(ext ExternalUser) (ExtractedProfile, error) {
	email := resolveEmail(ext)
	if email == "" {
		return ExtractedProfile{}, ErrMissingEmail
	}

	firstName := strings.TrimSpace(ext.FirstName)
	if firstName == "" {
		firstName = placeholderFirstName
	}

	profile := ExtractedProfile{
		Email:     email,
		FirstName: firstName,
		LastName:  strings.TrimSpace(ext.LastName),
	}

	if len(ext.PhoneNumbers) > 0 {
		profile.Phone = phone.NormalizeE164(ext.PhoneNumbers[0].PhoneNumber)
	}

	return profile, nil
}

// ExtractOrganizationID resolves the tenant context from the metadata bag.
// Provisioning without a known tenant is never permitted: absence or an
// unparsable identifier fails closed with ErrMissingTenantContext.
func ExtractOrganizationID(ext ExternalUser) (uuid.UUID, error) {
	raw, ok := ext.PublicMetadata["organizationId"]
	if !ok {
		return uuid.Nil, ErrMissingTenantContext
	}

	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return uuid.Nil, ErrMissingTenantContext
	}

	orgID, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, ErrMissingTenantContext
	}

	return orgID, nil
}

func resolveEmail(ext ExternalUser) string {
	if ext.PrimaryEmailAddressID != "" {
		for _, address := range ext.EmailAddresses {
			if address.ID == ext.PrimaryEmailAddressID && address.EmailAddress != "" {
				return address.EmailAddress
			}
		}
	}
	for _, address := range ext.EmailAddresses {
		if address.EmailAddress != "" {
			return address.EmailAddress
		}
	}
	return ""
}
