package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorizeSingleCode(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "User", true, "rooms:view")
	user := seedUser(t, db, "x@example.com", role.ID)

	svc := New(db)
	require.NoError(t, svc.Authorize(user.ID, []string{"rooms:view"}, false))
	require.ErrorIs(t, svc.Authorize(user.ID, []string{"rooms:create"}, false), ErrInsufficientPermissions)
}

func TestAuthorizeAnyOf(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "Accountant", false, "invoices:approve")
	user := seedUser(t, db, "a@example.com", role.ID)

	svc := New(db)
	require.NoError(t, svc.Authorize(user.ID, []string{"invoices:approve", "invoices:pay"}, false))
}

func TestAuthorizeRequireAllDeniesPartialSet(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "Accountant", false, "invoices:approve")
	user := seedUser(t, db, "a@example.com", role.ID)

	svc := New(db)
	err := svc.Authorize(user.ID, []string{"invoices:approve", "invoices:pay"}, true)
	require.ErrorIs(t, err, ErrInsufficientPermissions)

	require.NoError(t, svc.AssignPermission(role.ID, PermissionRef{ID: seedPermission(t, db, "invoices:pay").ID}))
	require.NoError(t, svc.Authorize(user.ID, []string{"invoices:approve", "invoices:pay"}, true))
}

func TestAuthorizeMissingIdentity(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)
	require.ErrorIs(t, svc.Authorize(0, []string{"rooms:view"}, false), ErrAuthenticationRequired)
}

func TestAuthorizeUnknownUserDeniedViaEmptySet(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)
	require.ErrorIs(t, svc.Authorize(12345, []string{"rooms:view"}, false), ErrInsufficientPermissions)
}

func TestAuthorizeEmptyRequirementAllows(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "User", true)
	user := seedUser(t, db, "x@example.com", role.ID)

	svc := New(db)
	require.NoError(t, svc.Authorize(user.ID, nil, false))
}
