package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/model"
	"github.com/taskhive/taskhive/tests/testutil"
)

func TestCreateCommentRecordsActivityAndMentions(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "Alice")
	task := testutil.NewTask(t, s, f, "Discussed")

	comment, err := s.CreateComment(ctx, model.Comment{
		TaskID:  task.ID,
		UserID:  f.User.ID,
		Content: "What do you think, @alice?",
	}, []string{alice.ID})
	require.NoError(t, err)

	mentions, err := s.GetCommentMentions(ctx, comment.ID)
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	assert.Equal(t, alice.ID, mentions[0].UserID)

	feed, err := s.GetSubjectActivity(ctx, model.TaskSubject(task.ID))
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, model.ActivityCommentAdded, feed[0].Type)
}

func TestCommentThreadSingleLevel(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Threaded")

	top, err := s.CreateComment(ctx, model.Comment{
		TaskID: task.ID, UserID: f.User.ID, Content: "Top level",
	}, nil)
	require.NoError(t, err)

	reply, err := s.CreateComment(ctx, model.Comment{
		TaskID: task.ID, UserID: f.User.ID, ParentID: &top.ID, Content: "Reply",
	}, nil)
	require.NoError(t, err)

	// Replying to a reply is rejected.
	_, err = s.CreateComment(ctx, model.Comment{
		TaskID: task.ID, UserID: f.User.ID, ParentID: &reply.ID, Content: "Too deep",
	}, nil)
	assert.True(t, model.IsValidation(err))

	thread, err := s.GetTaskComments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "Reply", thread[0].Replies[0].Content)
}

func TestReplyMustTargetSameTask(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	taskA := testutil.NewTask(t, s, f, "A")
	taskB := testutil.NewTask(t, s, f, "B")

	top, err := s.CreateComment(ctx, model.Comment{
		TaskID: taskA.ID, UserID: f.User.ID, Content: "On A",
	}, nil)
	require.NoError(t, err)

	_, err = s.CreateComment(ctx, model.Comment{
		TaskID: taskB.ID, UserID: f.User.ID, ParentID: &top.ID, Content: "On B?",
	}, nil)
	assert.True(t, model.IsValidation(err))
}

func TestUpdateCommentAuthorOnly(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "Alice")
	task := testutil.NewTask(t, s, f, "Edited")

	comment, err := s.CreateComment(ctx, model.Comment{
		TaskID: task.ID, UserID: alice.ID, Content: "Draft",
	}, nil)
	require.NoError(t, err)

	// Even the workspace owner cannot edit someone else's words.
	err = s.UpdateComment(ctx, f.User.ID, comment.ID, "Rewritten")
	assert.True(t, model.IsAuthorization(err))

	require.NoError(t, s.UpdateComment(ctx, alice.ID, comment.ID, "Final"))

	thread, err := s.GetTaskComments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "Final", thread[0].Content)
}

func TestDeleteCommentAuthorOrAdmin(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "Alice")
	mallory := testutil.NewUser(t, s, "Mallory")
	require.NoError(t, s.AddWorkspaceMember(ctx, f.Workspace.ID, alice.ID, model.RoleMember))
	require.NoError(t, s.AddWorkspaceMember(ctx, f.Workspace.ID, mallory.ID, model.RoleMember))

	task := testutil.NewTask(t, s, f, "Moderated")
	comment, err := s.CreateComment(ctx, model.Comment{
		TaskID: task.ID, UserID: alice.ID, Content: "Hot take",
	}, nil)
	require.NoError(t, err)

	err = s.DeleteComment(ctx, mallory.ID, comment.ID)
	assert.True(t, model.IsAuthorization(err))

	// The workspace owner may moderate.
	require.NoError(t, s.DeleteComment(ctx, f.User.ID, comment.ID))

	thread, err := s.GetTaskComments(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, thread)
}

func TestResolveAndUnresolveComment(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Resolvable")
	comment, err := s.CreateComment(ctx, model.Comment{
		TaskID: task.ID, UserID: f.User.ID, Content: "Open question",
	}, nil)
	require.NoError(t, err)

	require.NoError(t, s.ResolveComment(ctx, f.User.ID, comment.ID))

	thread, err := s.GetTaskComments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.True(t, thread[0].IsResolved)
	require.NotNil(t, thread[0].ResolvedAt)
	require.NotNil(t, thread[0].ResolvedBy)
	assert.Equal(t, f.User.ID, *thread[0].ResolvedBy)

	require.NoError(t, s.UnresolveComment(ctx, comment.ID))

	thread, err = s.GetTaskComments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.False(t, thread[0].IsResolved)
	assert.Nil(t, thread[0].ResolvedAt)
	assert.Nil(t, thread[0].ResolvedBy)
}
