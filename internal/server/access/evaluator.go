// Package access evaluates role and permission requirements against an
// authenticated user. Both checks are pure predicates; the transport layer
// composes them per operation.
package access

import (
	"slices"

	"github.com/dmitrijs2005/loadout/internal/common"
	"github.com/dmitrijs2005/loadout/internal/server/models"
)

// HasRole reports whether user.Role is one of roles. An empty roles list
// places no restriction. A nil user is a wiring defect and returns
// common.ErrMissingPrincipal.
func HasRole(user *models.User, roles []models.Role) (bool, error) {
	if user == nil {
		return false, common.ErrMissingPrincipal
	}
	if len(roles) == 0 {
		return true, nil
	}
	if user.Role == "" {
		return false, nil
	}
	return slices.Contains(roles, user.Role), nil
}

// HasAnyPermission reports whether the user holds at least one of required.
//
// nil required places no restriction, while a non-nil empty slice denies
// unconditionally. A user without loaded permissions holds none.
func HasAnyPermission(user *models.User, required []string) (bool, error) {
	if user == nil {
		return false, common.ErrMissingPrincipal
	}
	if required == nil {
		return true, nil
	}
	for _, p := range user.Permissions {
		if slices.Contains(required, p.Name) {
			return true, nil
		}
	}
	return false, nil
}
