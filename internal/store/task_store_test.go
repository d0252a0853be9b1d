package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/model"
	"github.com/taskhive/taskhive/internal/store"
	"github.com/taskhive/taskhive/tests/testutil"
)

func TestCreateTaskAssignsIdentifierAndDefaults(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, f.User.ID, model.Task{
		TaskListID: f.List.ID,
		Title:      "Design endpoints",
	})
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("API-1", task.Identifier)
	assert.Equal(model.PriorityNormal, task.Priority)
	assert.Equal(0, task.Position)
	require.NotNil(t, task.StatusID)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Status)
	assert.Equal("To Do", got.Status.Name)
	assert.True(got.Status.IsDefault)

	second, err := s.CreateTask(ctx, f.User.ID, model.Task{
		TaskListID: f.List.ID,
		Title:      "Write docs",
	})
	require.NoError(t, err)
	assert.Equal("API-2", second.Identifier)
	assert.Equal(1, second.Position)
}

func TestTaskIdentifiersNeverReused(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	first := testutil.NewTask(t, s, f, "First")
	require.Equal(t, "API-1", first.Identifier)

	require.NoError(t, s.DeleteTask(ctx, f.User.ID, first.ID))

	second := testutil.NewTask(t, s, f, "Second")
	assert.Equal(t, "API-2", second.Identifier)
}

func TestCreateTaskRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	_, err := s.CreateTask(ctx, f.User.ID, model.Task{TaskListID: f.List.ID, Title: "   "})
	assert.True(t, model.IsValidation(err))

	_, err = s.CreateTask(ctx, f.User.ID, model.Task{
		TaskListID: f.List.ID,
		Title:      "Bad priority",
		Priority:   9,
	})
	assert.True(t, model.IsValidation(err))

	_, err = s.CreateTask(ctx, f.User.ID, model.Task{TaskListID: "nope", Title: "Orphan"})
	assert.True(t, model.IsNotFound(err))
}

func TestUpdateTaskStatusDerivesCompletion(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Ship feature")
	done := f.StatusNamed(t, "Done")
	todo := f.StatusNamed(t, "To Do")

	require.NoError(t, s.UpdateTaskStatus(ctx, f.User.ID, task.ID, done.ID))

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.IsCompleted())

	feed, err := s.GetSubjectActivity(ctx, model.TaskSubject(task.ID))
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, model.ActivityCompleted, feed[0].Type)
	assert.Equal(t, model.ActivityStatusChanged, feed[1].Type)
	assert.Equal(t, model.ActivityCreated, feed[2].Type)
	assert.JSONEq(t, `{"old":"`+todo.ID+`","new":"`+done.ID+`"}`, feed[1].Properties)

	// Moving back to an open status reopens the task.
	require.NoError(t, s.UpdateTaskStatus(ctx, f.User.ID, task.ID, todo.ID))

	got, err = s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CompletedAt)

	feed, err = s.GetSubjectActivity(ctx, model.TaskSubject(task.ID))
	require.NoError(t, err)
	require.Len(t, feed, 5)
	assert.Equal(t, model.ActivityReopened, feed[0].Type)
}

func TestUpdateTaskStatusNoOpWhenUnchanged(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Idle")
	require.NoError(t, s.UpdateTaskStatus(ctx, f.User.ID, task.ID, *task.StatusID))

	feed, err := s.GetSubjectActivity(ctx, model.TaskSubject(task.ID))
	require.NoError(t, err)
	assert.Len(t, feed, 1) // only the created record
}

func TestUpdateTaskStatusRejectsForeignStatus(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	other, err := s.CreateTaskList(ctx, model.TaskList{SpaceID: f.Space.ID, Name: "Backend"})
	require.NoError(t, err)
	foreign, err := s.GetDefaultStatus(ctx, other.ID)
	require.NoError(t, err)

	task := testutil.NewTask(t, s, f, "Task")
	err = s.UpdateTaskStatus(ctx, f.User.ID, task.ID, foreign.ID)
	assert.True(t, model.IsNotFound(err))
}

func TestUpdateTaskPriority(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Prioritize me")

	require.NoError(t, s.UpdateTaskPriority(ctx, f.User.ID, task.ID, model.PriorityUrgent))
	// Same value again is a silent no-op.
	require.NoError(t, s.UpdateTaskPriority(ctx, f.User.ID, task.ID, model.PriorityUrgent))

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityUrgent, got.Priority)
	assert.Equal(t, "Urgent", got.PriorityLabel())

	feed, err := s.GetSubjectActivity(ctx, model.TaskSubject(task.ID))
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, model.ActivityPriorityChanged, feed[0].Type)
	assert.JSONEq(t, `{"old":3,"new":1}`, feed[0].Properties)

	err = s.UpdateTaskPriority(ctx, f.User.ID, task.ID, 0)
	assert.True(t, model.IsValidation(err))
}

func TestUpdateTaskDueDate(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Due soon")
	due := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpdateTaskDueDate(ctx, f.User.ID, task.ID, &due))
	// Same date again is a silent no-op.
	require.NoError(t, s.UpdateTaskDueDate(ctx, f.User.ID, task.ID, &due))

	feed, err := s.GetSubjectActivity(ctx, model.TaskSubject(task.ID))
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, model.ActivityDueDateChanged, feed[0].Type)

	require.NoError(t, s.UpdateTaskDueDate(ctx, f.User.ID, task.ID, nil))
	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
}

func TestSetTaskAssigneesLogsDiff(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "Alice")
	bob := testutil.NewUser(t, s, "Bob")
	task := testutil.NewTask(t, s, f, "Shared work")

	require.NoError(t, s.SetTaskAssignees(ctx, f.User.ID, task.ID, []string{alice.ID, bob.ID}))

	assignees, err := s.GetTaskUsers(ctx, task.ID, model.TaskRoleAssignee)
	require.NoError(t, err)
	assert.Len(t, assignees, 2)

	// Replacing the set unassigns bob only.
	require.NoError(t, s.SetTaskAssignees(ctx, f.User.ID, task.ID, []string{alice.ID}))

	feed, err := s.GetSubjectActivity(ctx, model.TaskSubject(task.ID))
	require.NoError(t, err)
	var assigned, unassigned int
	for _, a := range feed {
		switch a.Type {
		case model.ActivityAssigned:
			assigned++
		case model.ActivityUnassigned:
			unassigned++
		}
	}
	assert.Equal(t, 2, assigned)
	assert.Equal(t, 1, unassigned)
}

func TestWatchersIndependentFromAssignees(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "Alice")
	task := testutil.NewTask(t, s, f, "Watched")

	require.NoError(t, s.SetTaskAssignees(ctx, f.User.ID, task.ID, []string{alice.ID}))
	require.NoError(t, s.SetTaskWatchers(ctx, task.ID, []string{alice.ID}))

	require.NoError(t, s.SetTaskWatchers(ctx, task.ID, nil))

	assignees, err := s.GetTaskUsers(ctx, task.ID, model.TaskRoleAssignee)
	require.NoError(t, err)
	assert.Len(t, assignees, 1)

	watchers, err := s.GetTaskUsers(ctx, task.ID, model.TaskRoleWatcher)
	require.NoError(t, err)
	assert.Empty(t, watchers)
}

func TestSubtaskPositionsScopedPerParent(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	parent := testutil.NewTask(t, s, f, "Parent")

	sub1, err := s.CreateTask(ctx, f.User.ID, model.Task{
		TaskListID: f.List.ID, ParentID: &parent.ID, Title: "Sub one",
	})
	require.NoError(t, err)
	sub2, err := s.CreateTask(ctx, f.User.ID, model.Task{
		TaskListID: f.List.ID, ParentID: &parent.ID, Title: "Sub two",
	})
	require.NoError(t, err)

	// Subtasks start their own position sequence under the parent.
	assert.Equal(t, 0, sub1.Position)
	assert.Equal(t, 1, sub2.Position)

	root := testutil.NewTask(t, s, f, "Another root")
	assert.Equal(t, 1, root.Position)

	subs, err := s.GetSubtasks(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Sub one", subs[0].Title)
}

func TestTaskProgress(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	parent := testutil.NewTask(t, s, f, "Epic")
	done := f.StatusNamed(t, "Done")

	p, err := s.TaskProgress(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p)

	var subs []*model.Task
	for _, title := range []string{"A", "B", "C"} {
		sub, err := s.CreateTask(ctx, f.User.ID, model.Task{
			TaskListID: f.List.ID, ParentID: &parent.ID, Title: title,
		})
		require.NoError(t, err)
		subs = append(subs, sub)
	}

	require.NoError(t, s.UpdateTaskStatus(ctx, f.User.ID, subs[0].ID, done.ID))

	p, err = s.TaskProgress(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, p)

	require.NoError(t, s.UpdateTaskStatus(ctx, f.User.ID, subs[1].ID, done.ID))
	require.NoError(t, s.UpdateTaskStatus(ctx, f.User.ID, subs[2].ID, done.ID))

	p, err = s.TaskProgress(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, p)

	// A task without subtasks reports its own completion.
	solo := testutil.NewTask(t, s, f, "Solo")
	require.NoError(t, s.UpdateTaskStatus(ctx, f.User.ID, solo.ID, done.ID))
	p, err = s.TaskProgress(ctx, solo.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, p)
}

func TestGetListTasksFilters(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	alice := testutil.NewUser(t, s, "Alice")
	done := f.StatusNamed(t, "Done")

	t1 := testutil.NewTask(t, s, f, "Fix login bug")
	t2 := testutil.NewTask(t, s, f, "Refactor session handling")
	t3 := testutil.NewTask(t, s, f, "Update readme")

	require.NoError(t, s.UpdateTaskStatus(ctx, f.User.ID, t1.ID, done.ID))
	require.NoError(t, s.SetTaskAssignees(ctx, f.User.ID, t2.ID, []string{alice.ID}))
	require.NoError(t, s.UpdateTaskPriority(ctx, f.User.ID, t3.ID, model.PriorityLow))

	all, err := s.GetListTasks(ctx, f.List.ID, store.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byStatus, err := s.GetListTasks(ctx, f.List.ID, store.TaskFilter{StatusID: &done.ID})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, t1.ID, byStatus[0].ID)

	byAssignee, err := s.GetListTasks(ctx, f.List.ID, store.TaskFilter{AssigneeID: &alice.ID})
	require.NoError(t, err)
	require.Len(t, byAssignee, 1)
	assert.Equal(t, t2.ID, byAssignee[0].ID)

	low := model.PriorityLow
	byPriority, err := s.GetListTasks(ctx, f.List.ID, store.TaskFilter{Priority: &low})
	require.NoError(t, err)
	require.Len(t, byPriority, 1)
	assert.Equal(t, t3.ID, byPriority[0].ID)

	q := "session"
	byQuery, err := s.GetListTasks(ctx, f.List.ID, store.TaskFilter{Query: &q})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, t2.ID, byQuery[0].ID)
}

func TestGetListTasksExcludesArchivedByDefault(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Old work")
	require.NoError(t, s.ArchiveTask(ctx, f.User.ID, task.ID))

	visible, err := s.GetListTasks(ctx, f.List.ID, store.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := s.GetListTasks(ctx, f.List.ID, store.TaskFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.UnarchiveTask(ctx, f.User.ID, task.ID))
	visible, err = s.GetListTasks(ctx, f.List.ID, store.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestReorderTasksSkipsForeignList(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	other, err := s.CreateTaskList(ctx, model.TaskList{SpaceID: f.Space.ID, Name: "Backend"})
	require.NoError(t, err)

	a := testutil.NewTask(t, s, f, "A")
	b := testutil.NewTask(t, s, f, "B")
	foreign, err := s.CreateTask(ctx, f.User.ID, model.Task{TaskListID: other.ID, Title: "Elsewhere"})
	require.NoError(t, err)

	err = s.ReorderTasks(ctx, f.User.ID, f.List.ID, []store.TaskReorderItem{
		{ID: b.ID, Position: 0},
		{ID: a.ID, Position: 1},
		{ID: foreign.ID, Position: 99},
	})
	require.NoError(t, err)

	tasks, err := s.GetListTasks(ctx, f.List.ID, store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, b.ID, tasks[0].ID)
	assert.Equal(t, a.ID, tasks[1].ID)

	// The foreign task kept its own position.
	got, err := s.GetTask(ctx, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Position)
}

func TestReorderTasksWithStatusChange(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Dragged")
	inProgress := f.StatusNamed(t, "In Progress")

	err := s.ReorderTasks(ctx, f.User.ID, f.List.ID, []store.TaskReorderItem{
		{ID: task.ID, Position: 0, StatusID: &inProgress.ID},
	})
	require.NoError(t, err)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StatusID)
	assert.Equal(t, inProgress.ID, *got.StatusID)

	feed, err := s.GetSubjectActivity(ctx, model.TaskSubject(task.ID))
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, model.ActivityStatusChanged, feed[0].Type)
}

func TestMoveTask(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	target, err := s.CreateTaskList(ctx, model.TaskList{SpaceID: f.Space.ID, Name: "Backend"})
	require.NoError(t, err)
	testutil.NewTask(t, s, f, "Stays")
	task := testutil.NewTask(t, s, f, "Moves")

	_, err = s.CreateTask(ctx, f.User.ID, model.Task{TaskListID: target.ID, Title: "Already here"})
	require.NoError(t, err)

	require.NoError(t, s.MoveTask(ctx, f.User.ID, task.ID, target.ID))

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, got.TaskListID)
	assert.Equal(t, 1, got.Position)
	require.NotNil(t, got.Status)
	assert.Equal(t, "To Do", got.Status.Name)
	// The identifier keeps its original list prefix.
	assert.Equal(t, "API-2", got.Identifier)
}

func TestMoveTaskRejectsCrossWorkspace(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	otherOwner := testutil.NewUser(t, s, "Other Owner")
	otherWS, err := s.CreateWorkspace(ctx, model.Workspace{Name: "Elsewhere", OwnerID: otherOwner.ID})
	require.NoError(t, err)
	otherSpace, err := s.CreateSpace(ctx, model.Space{WorkspaceID: otherWS.ID, Name: "Ops"})
	require.NoError(t, err)
	otherList, err := s.CreateTaskList(ctx, model.TaskList{SpaceID: otherSpace.ID, Name: "Infra"})
	require.NoError(t, err)

	task := testutil.NewTask(t, s, f, "Homebound")
	err = s.MoveTask(ctx, f.User.ID, task.ID, otherList.ID)
	assert.True(t, model.IsValidation(err))
}

func TestDeleteTaskSoftDeletesSubtasks(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	parent := testutil.NewTask(t, s, f, "Parent")
	_, err := s.CreateTask(ctx, f.User.ID, model.Task{
		TaskListID: f.List.ID, ParentID: &parent.ID, Title: "Child",
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTask(ctx, f.User.ID, parent.ID))

	_, err = s.GetTask(ctx, parent.ID)
	assert.True(t, model.IsNotFound(err))

	subs, err := s.GetSubtasks(ctx, parent.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	// The audit record survives the deletion.
	feed, err := s.GetSubjectActivity(ctx, model.TaskSubject(parent.ID))
	require.NoError(t, err)
	require.NotEmpty(t, feed)
	assert.Equal(t, model.ActivityDeleted, feed[0].Type)
}
