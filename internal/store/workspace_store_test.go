package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/model"
	"github.com/taskhive/taskhive/tests/testutil"
)

func TestCreateWorkspaceAttachesOwner(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	owner := testutil.NewUser(t, s, "Owner")
	ws, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Acme Inc", OwnerID: owner.ID})
	require.NoError(t, err)

	assert.Contains(t, ws.Slug, "acme-inc-")

	members, err := s.GetWorkspaceMembers(ctx, ws.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, owner.ID, members[0].UserID)
	assert.Equal(t, model.RoleOwner, members[0].Role)

	bySlug, err := s.GetWorkspaceBySlug(ctx, ws.Slug)
	require.NoError(t, err)
	assert.Equal(t, ws.ID, bySlug.ID)
}

func TestAddWorkspaceMemberRejectsOwnerRole(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "Alice")

	err := s.AddWorkspaceMember(ctx, f.Workspace.ID, alice.ID, model.RoleOwner)
	assert.True(t, model.IsValidation(err))

	err = s.AddWorkspaceMember(ctx, f.Workspace.ID, alice.ID, "superuser")
	assert.True(t, model.IsValidation(err))

	require.NoError(t, s.AddWorkspaceMember(ctx, f.Workspace.ID, alice.ID, model.RoleMember))

	isMember, err := s.IsWorkspaceMember(ctx, f.Workspace.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	isAdmin, err := s.IsWorkspaceAdmin(ctx, f.Workspace.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestOwnerMembershipImmutable(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	err := s.UpdateWorkspaceMemberRole(ctx, f.Workspace.ID, f.User.ID, model.RoleMember)
	assert.True(t, model.IsValidation(err))

	err = s.RemoveWorkspaceMember(ctx, f.Workspace.ID, f.User.ID)
	assert.True(t, model.IsValidation(err))
}

func TestTransferWorkspaceOwnership(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "Alice")
	stranger := testutil.NewUser(t, s, "Stranger")

	// The new owner must already be a member.
	err := s.TransferWorkspaceOwnership(ctx, f.Workspace.ID, stranger.ID)
	assert.True(t, model.IsValidation(err))

	require.NoError(t, s.AddWorkspaceMember(ctx, f.Workspace.ID, alice.ID, model.RoleMember))
	require.NoError(t, s.TransferWorkspaceOwnership(ctx, f.Workspace.ID, alice.ID))

	ws, err := s.GetWorkspace(ctx, f.Workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, ws.OwnerID)

	members, err := s.GetWorkspaceMembers(ctx, f.Workspace.ID)
	require.NoError(t, err)

	roles := map[string]string{}
	for _, m := range members {
		roles[m.UserID] = m.Role
	}
	assert.Equal(t, model.RoleOwner, roles[alice.ID])
	assert.Equal(t, model.RoleAdmin, roles[f.User.ID])
}

func TestDeleteWorkspaceHidesIt(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	require.NoError(t, s.DeleteWorkspace(ctx, f.Workspace.ID))

	_, err := s.GetWorkspace(ctx, f.Workspace.ID)
	assert.True(t, model.IsNotFound(err))

	all, err := s.GetWorkspaces(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// Deleting twice reports not found.
	err = s.DeleteWorkspace(ctx, f.Workspace.ID)
	assert.True(t, model.IsNotFound(err))
}
