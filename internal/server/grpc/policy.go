package grpc

import (
	"strings"

	"github.com/dmitrijs2005/loadout/internal/api"
	"github.com/dmitrijs2005/loadout/internal/server/models"
)

// Policy declares what a method requires. Public methods skip every check.
// Otherwise the caller must authenticate, then pass the role check and the
// permission check. Roles and Permissions follow the semantics of
// access.HasRole and access.HasAnyPermission, including nil versus empty.
type Policy struct {
	Public      bool
	Roles       []models.Role
	Permissions []string
}

// Permission names checked by the transport.
const (
	PermissionReadUsers = "read_users"
)

// DefaultPolicies is the route table of the auth service.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		api.MethodSignUp:          {Public: true},
		api.MethodLogin:           {Public: true},
		api.MethodRefresh:         {Public: true},
		api.MethodLogout:          {Public: true},
		api.MethodIssueTokens:     {},
		api.MethodLogoutAll:       {},
		api.MethodWhoAmI:          {},
		api.MethodGetUser:         {Permissions: []string{PermissionReadUsers}},
		api.MethodGrantPermission: {Roles: []models.Role{models.RoleAdmin}},
	}
}

const healthPrefix = "/grpc.health.v1.Health/"

// policyFor falls back to authenticated-only for methods not in the table.
func (s *GRPCServer) policyFor(method string) Policy {
	if strings.HasPrefix(method, healthPrefix) {
		return Policy{Public: true}
	}
	if p, ok := s.policies[method]; ok {
		return p
	}
	return Policy{}
}
