// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoleAdmin may act on behalf of any provider.
const RoleAdmin = "admin"

// Identity represents the authenticated caller.
// Handlers read it without depending on how the token was verified.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// Roles returns the user's assigned roles.
	Roles() []string
	// HasRole checks if the user has a specific role.
	HasRole(role string) bool
	// ProviderID returns the provider the user acts for, if any.
	ProviderID() (uuid.UUID, bool)
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	roles         []string
	providerID    *uuid.UUID
	authenticated bool
}

func (i *identity) UserID() uuid.UUID {
	return i.userID
}

func (i *identity) Roles() []string {
	return i.roles
}

func (i *identity) HasRole(role string) bool {
	for _, r := range i.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (i *identity) ProviderID() (uuid.UUID, bool) {
	if i.providerID == nil {
		return uuid.Nil, false
	}
	return *i.providerID, true
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{}
	}

	id := &identity{userID: uid, authenticated: true}
	if roles, ok := c.Get(ContextRolesKey); ok {
		id.roles, _ = roles.([]string)
	}
	if provider, ok := c.Get(ContextProviderIDKey); ok {
		if pid, ok := provider.(uuid.UUID); ok {
			id.providerID = &pid
		}
	}
	return id
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, Envelope{Error: errUnauthorized})
		return nil
	}
	return id
}

// CanActFor reports whether the caller may act for providerID.
// Unauthenticated requests are allowed; authentication is enforced by
// middleware when it is enabled.
func CanActFor(c *gin.Context, providerID uuid.UUID) bool {
	id := GetIdentity(c)
	if !id.IsAuthenticated() || id.HasRole(RoleAdmin) {
		return true
	}
	own, ok := id.ProviderID()
	if !ok {
		return true
	}
	return own == providerID
}
