package rbac

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/connectx-id/connectx-backend/models"
)

func TestCreateRoleRejectsDuplicateName(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)

	_, err := svc.CreateRole("Manager", "manages things", 500)
	require.NoError(t, err)

	_, err = svc.CreateRole("Manager", "another", 100)
	require.ErrorIs(t, err, ErrConflict)

	// exact case-sensitive match only
	_, err = svc.CreateRole("manager", "lowercase is a different role", 100)
	require.NoError(t, err)
}

func TestCreateRoleRequiresName(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)

	_, err := svc.CreateRole("   ", "", 0)
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateRoleRenameChecksOtherRoles(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)

	a, err := svc.CreateRole("Editor", "", 400)
	require.NoError(t, err)
	_, err = svc.CreateRole("Accountant", "", 300)
	require.NoError(t, err)

	name := "Accountant"
	_, err = svc.UpdateRole(a.ID, RoleUpdate{Name: &name})
	require.ErrorIs(t, err, ErrConflict)

	// renaming to its own current name is fine
	same := "Editor"
	desc := "content team"
	updated, err := svc.UpdateRole(a.ID, RoleUpdate{Name: &same, Description: &desc})
	require.NoError(t, err)
	require.Equal(t, "content team", updated.Description)
}

func TestDeleteRoleSystemProtection(t *testing.T) {
	db := openTestDB(t)
	system := seedRole(t, db, "Super Admin", true)
	regular := seedRole(t, db, "Manager", false)

	svc := New(db)
	require.ErrorIs(t, svc.DeleteRole(system.ID), ErrSystemRole)
	require.NoError(t, svc.DeleteRole(regular.ID))
	require.ErrorIs(t, svc.DeleteRole(9999), ErrNotFound)
}

func TestDeleteRoleBlockedWhileAssigned(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "Manager", false)
	seedUser(t, db, "m@example.com", role.ID)

	svc := New(db)
	require.ErrorIs(t, svc.DeleteRole(role.ID), ErrConflict)

	// unassigning the user unblocks deletion
	require.NoError(t, db.Model(&models.User{}).Where("role_id = ?", role.ID).Update("role_id", 0).Error)
	require.NoError(t, svc.DeleteRole(role.ID))
}

func TestAssignPermissionIdempotent(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "Editor", false)
	perm := seedPermission(t, db, "posts:publish")

	svc := New(db)
	require.NoError(t, svc.AssignPermission(role.ID, PermissionRef{ID: perm.ID}))
	require.NoError(t, svc.AssignPermission(role.ID, PermissionRef{ID: perm.ID}))

	var links int64
	require.NoError(t, db.Table("role_permissions").Where("role_id = ?", role.ID).Count(&links).Error)
	require.EqualValues(t, 1, links)
}

func TestAssignPermissionByCode(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "Editor", false)
	seedPermission(t, db, "posts:publish")

	svc := New(db)
	require.NoError(t, svc.AssignPermission(role.ID, PermissionRef{Code: "posts:publish"}))

	got, err := svc.GetRole(role.ID)
	require.NoError(t, err)
	require.Len(t, got.Permissions, 1)
	require.Equal(t, "posts:publish", got.Permissions[0].Code)
}

func TestAssignPermissionIdentifierValidation(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "Editor", false)
	perm := seedPermission(t, db, "posts:publish")

	svc := New(db)
	require.ErrorIs(t, svc.AssignPermission(role.ID, PermissionRef{}), ErrValidation)
	require.ErrorIs(t, svc.AssignPermission(role.ID, PermissionRef{ID: perm.ID, Code: "posts:publish"}), ErrValidation)
	require.ErrorIs(t, svc.AssignPermission(role.ID, PermissionRef{Code: "nope:never"}), ErrNotFound)
	require.ErrorIs(t, svc.AssignPermission(9999, PermissionRef{ID: perm.ID}), ErrNotFound)
}

func TestRevokePermissionNoopWhenNotLinked(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "Editor", false, "posts:view")
	other := seedPermission(t, db, "posts:publish")

	svc := New(db)
	require.NoError(t, svc.RevokePermission(role.ID, PermissionRef{ID: other.ID}))

	got, err := svc.GetRole(role.ID)
	require.NoError(t, err)
	require.Len(t, got.Permissions, 1)
}

func TestOverrideUpsertKeepsSingleRow(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "User", true)
	user := seedUser(t, db, "x@example.com", role.ID)
	perm := seedPermission(t, db, "rooms:create")

	svc := New(db)
	expiry := time.Now().Add(24 * time.Hour)
	require.NoError(t, svc.GrantUserPermission(user.ID, perm.ID, 7, "trial", &expiry))
	require.NoError(t, svc.RevokeUserPermission(user.ID, perm.ID, 7, "trial over"))

	var rows []models.UserPermission
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.False(t, rows[0].Granted)
	require.Equal(t, "trial over", rows[0].Reason)
	require.Nil(t, rows[0].ExpiresAt)
}

func TestRemoveUserPermissionRevertsToRole(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "User", true, "assets:view")
	user := seedUser(t, db, "x@example.com", role.ID)

	svc := New(db)
	perm := rolePermission(t, db, "assets:view")
	require.NoError(t, svc.RevokeUserPermission(user.ID, perm, 1, ""))

	perms, err := svc.ResolveEffectivePermissions(user.ID)
	require.NoError(t, err)
	require.Empty(t, perms)

	require.NoError(t, svc.RemoveUserPermission(user.ID, perm))
	perms, err = svc.ResolveEffectivePermissions(user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"assets:view"}, codesOf(perms))
}

func TestGrantUnknownTargetsRejected(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "User", true)
	user := seedUser(t, db, "x@example.com", role.ID)
	perm := seedPermission(t, db, "rooms:create")

	svc := New(db)
	require.ErrorIs(t, svc.GrantUserPermission(user.ID, 9999, 1, "", nil), ErrNotFound)
	require.ErrorIs(t, svc.GrantUserPermission(9999, perm.ID, 1, "", nil), ErrNotFound)
}

func TestDeletePermissionBlockedWhileReferenced(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "Editor", false, "posts:publish")
	user := seedUser(t, db, "x@example.com", role.ID)

	svc := New(db)
	perm := rolePermission(t, db, "posts:publish")
	require.ErrorIs(t, svc.DeletePermission(perm), ErrConflict)

	// still referenced by a user override after unlinking from the role
	require.NoError(t, svc.RevokePermission(role.ID, PermissionRef{ID: perm}))
	require.NoError(t, svc.GrantUserPermission(user.ID, perm, 1, "", nil))
	require.ErrorIs(t, svc.DeletePermission(perm), ErrConflict)

	require.NoError(t, svc.RemoveUserPermission(user.ID, perm))
	require.NoError(t, svc.DeletePermission(perm))
}

func TestCreatePermissionDerivesCode(t *testing.T) {
	db := openTestDB(t)
	svc := New(db)

	perm, err := svc.CreatePermission("invoices", "approve", "Can approve invoices", "finance")
	require.NoError(t, err)
	require.Equal(t, "invoices:approve", perm.Code)

	_, err = svc.CreatePermission("invoices", "approve", "dup", "finance")
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreatePermission("", "approve", "", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestAssignRoleToUser(t *testing.T) {
	db := openTestDB(t)
	oldRole := seedRole(t, db, "User", true, "posts:view")
	newRole := seedRole(t, db, "Editor", false, "posts:publish")
	user := seedUser(t, db, "x@example.com", oldRole.ID)

	svc := New(db)
	require.NoError(t, svc.AssignRoleToUser(user.ID, newRole.ID))

	perms, err := svc.ResolveEffectivePermissions(user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"posts:publish"}, codesOf(perms))

	require.ErrorIs(t, svc.AssignRoleToUser(user.ID, 9999), ErrNotFound)
	require.ErrorIs(t, svc.AssignRoleToUser(9999, newRole.ID), ErrNotFound)
}

func TestListUserOverridesIncludesExpired(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, "User", true)
	user := seedUser(t, db, "x@example.com", role.ID)
	perm := seedPermission(t, db, "rooms:create")

	svc := New(db)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, svc.GrantUserPermission(user.ID, perm.ID, 1, "expired trial", &past))

	overrides, err := svc.ListUserOverrides(user.ID)
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	require.Equal(t, "rooms:create", overrides[0].Permission.Code)
}
