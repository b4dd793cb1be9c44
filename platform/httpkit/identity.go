// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextUserIDKey is the gin context key for the authenticated user ID.
	ContextUserIDKey = "userID"
	// ContextExternalIDKey is the gin context key for the provider subject ID.
	ContextExternalIDKey = "externalID"
	// ContextTenantIDKey is the gin context key for the tenant (organization) ID.
	ContextTenantIDKey = "tenantID"
	// ContextEmailKey is the gin context key for the authenticated email.
	ContextEmailKey = "email"
	// ContextRoleKey is the gin context key for the user's role.
	ContextRoleKey = "role"
)

// Identity represents the authenticated caller with verified tenant context.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access user information without depending on Gin.
type Identity interface {
	// UserID returns the authenticated user's local ID.
	UserID() uuid.UUID
	// ExternalID returns the identity provider's subject identifier.
	ExternalID() string
	// OrganizationID returns the caller's organization.
	OrganizationID() uuid.UUID
	// Email returns the authenticated email address.
	Email() string
	// Role returns the user's role name.
	Role() string
	// HasRole checks if the user has a specific role.
	HasRole(role string) bool
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	userID        uuid.UUID
	externalID    string
	orgID         uuid.UUID
	email         string
	role          string
	authenticated bool
}

func (i *identity) UserID() uuid.UUID         { return i.userID }
func (i *identity) ExternalID() string        { return i.externalID }
func (i *identity) OrganizationID() uuid.UUID { return i.orgID }
func (i *identity) Email() string             { return i.email }
func (i *identity) Role() string              { return i.role }

func (i *identity) HasRole(role string) bool {
	return i.role == role
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// SetIdentity stores the verified identity values on the gin context.
// Called by the authorization middleware once the credential is verified.
func SetIdentity(c *gin.Context, userID uuid.UUID, externalID string, orgID uuid.UUID, email, role string) {
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextExternalIDKey, externalID)
	c.Set(ContextTenantIDKey, orgID)
	c.Set(ContextEmailKey, email)
	c.Set(ContextRoleKey, role)
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{authenticated: false}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	orgID, _ := c.Get(ContextTenantIDKey)
	oid, ok := orgID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	return &identity{
		userID:        uid,
		externalID:    c.GetString(ContextExternalIDKey),
		orgID:         oid,
		email:         c.GetString(ContextEmailKey),
		role:          c.GetString(ContextRoleKey),
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}

// ConfirmTenant checks a body-carried organization identifier against the
// caller's verified organization. Handlers call this after binding any DTO
// that names an organization explicitly; an empty claimed ID is not an error.
// Returns false after writing a 403 response on mismatch.
func ConfirmTenant(c *gin.Context, claimed uuid.UUID) bool {
	if claimed == uuid.Nil {
		return true
	}
	id := GetIdentity(c)
	if !id.IsAuthenticated() || claimed != id.OrganizationID() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "cross-tenant access denied"})
		return false
	}
	return true
}
