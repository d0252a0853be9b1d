package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/model"
	"github.com/taskhive/taskhive/tests/testutil"
)

func TestWorkspaceFeedNewestFirst(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	first := testutil.NewTask(t, s, f, "First")
	second := testutil.NewTask(t, s, f, "Second")
	require.NoError(t, s.UpdateTaskPriority(ctx, f.User.ID, first.ID, model.PriorityHigh))

	feed, err := s.GetWorkspaceActivity(ctx, f.Workspace.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 3)

	assert := assert.New(t)
	assert.Equal(model.ActivityPriorityChanged, feed[0].Type)
	assert.Equal(first.ID, feed[0].SubjectID)
	assert.Equal(model.ActivityCreated, feed[1].Type)
	assert.Equal(second.ID, feed[1].SubjectID)
	assert.Equal(model.ActivityCreated, feed[2].Type)
	assert.Equal(first.ID, feed[2].SubjectID)

	limited, err := s.GetWorkspaceActivity(ctx, f.Workspace.ID, 2)
	require.NoError(t, err)
	assert.Len(limited, 2)
}

func TestActivityResolvesWorkspaceThroughChain(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Tracked")

	feed, err := s.GetSubjectActivity(ctx, model.TaskSubject(task.ID))
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.NotNil(t, feed[0].WorkspaceID)
	assert.Equal(t, f.Workspace.ID, *feed[0].WorkspaceID)
	require.NotNil(t, feed[0].UserID)
	assert.Equal(t, f.User.ID, *feed[0].UserID)
}

func TestLogActivityWithoutActorOrWorkspace(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	testutil.NewFixture(t, s)
	ctx := context.Background()

	// System action on an unresolvable subject keeps the record with
	// null actor and workspace references.
	activity, err := s.LogActivity(ctx, "", model.TaskSubject("gone"), model.ActivityUpdated, nil)
	require.NoError(t, err)
	assert.Nil(t, activity.UserID)
	assert.Nil(t, activity.WorkspaceID)
	assert.Equal(t, "{}", activity.Properties)

	feed, err := s.GetSubjectActivity(ctx, model.TaskSubject("gone"))
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestActivityPropertiesRoundTrip(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Props")

	_, err := s.LogActivity(ctx, f.User.ID, model.TaskSubject(task.ID),
		model.ActivityAttachmentAdded, map[string]any{"filename": "spec.pdf"})
	require.NoError(t, err)

	feed, err := s.GetSubjectActivity(ctx, model.TaskSubject(task.ID))
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.JSONEq(t, `{"filename":"spec.pdf"}`, feed[0].Properties)
}
