package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/model"
	"github.com/taskhive/taskhive/internal/store"
	"github.com/taskhive/taskhive/tests/testutil"
)

func TestChecklistLifecycle(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Release")

	checklist, err := s.CreateChecklist(ctx, model.Checklist{
		TaskID: task.ID,
		Name:   "Launch prep",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, checklist.Position)

	for _, content := range []string{"Write changelog", "Tag release", "Deploy"} {
		_, err := s.AddChecklistItem(ctx, model.ChecklistItem{
			ChecklistID: checklist.ID,
			Content:     content,
		})
		require.NoError(t, err)
	}

	lists, err := s.GetTaskChecklists(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.Len(t, lists[0].Items, 3)
	assert.Equal(t, "Write changelog", lists[0].Items[0].Content)

	checklist.Name = "Release prep"
	require.NoError(t, s.UpdateChecklist(ctx, *checklist))

	require.NoError(t, s.DeleteChecklist(ctx, checklist.ID))
	lists, err = s.GetTaskChecklists(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestChecklistItemCompletionToggle(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Toggled")
	checklist, err := s.CreateChecklist(ctx, model.Checklist{TaskID: task.ID, Name: "Steps"})
	require.NoError(t, err)

	item, err := s.AddChecklistItem(ctx, model.ChecklistItem{
		ChecklistID: checklist.ID,
		Content:     "Do the thing",
	})
	require.NoError(t, err)

	require.NoError(t, s.MarkChecklistItemComplete(ctx, item.ID))

	items, err := s.GetChecklistItems(ctx, checklist.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsCompleted)
	assert.NotNil(t, items[0].CompletedAt)

	require.NoError(t, s.MarkChecklistItemIncomplete(ctx, item.ID))

	items, err = s.GetChecklistItems(ctx, checklist.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsCompleted)
	assert.Nil(t, items[0].CompletedAt)
}

func TestChecklistProgress(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Measured")
	checklist, err := s.CreateChecklist(ctx, model.Checklist{TaskID: task.ID, Name: "Steps"})
	require.NoError(t, err)

	// Empty checklists are 0%, not a division error.
	p, err := s.ChecklistProgress(ctx, checklist.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p)

	var items []*model.ChecklistItem
	for _, content := range []string{"One", "Two", "Three"} {
		item, err := s.AddChecklistItem(ctx, model.ChecklistItem{
			ChecklistID: checklist.ID, Content: content,
		})
		require.NoError(t, err)
		items = append(items, item)
	}

	require.NoError(t, s.MarkChecklistItemComplete(ctx, items[0].ID))

	p, err = s.ChecklistProgress(ctx, checklist.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, p)

	require.NoError(t, s.MarkChecklistItemComplete(ctx, items[1].ID))
	require.NoError(t, s.MarkChecklistItemComplete(ctx, items[2].ID))

	p, err = s.ChecklistProgress(ctx, checklist.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, p)
}

func TestReorderChecklistItems(t *testing.T) {
	t.Parallel()
	s := testutil.NewTestStore(t)
	f := testutil.NewFixture(t, s)
	ctx := context.Background()

	task := testutil.NewTask(t, s, f, "Ordered")
	checklist, err := s.CreateChecklist(ctx, model.Checklist{TaskID: task.ID, Name: "Steps"})
	require.NoError(t, err)

	first, err := s.AddChecklistItem(ctx, model.ChecklistItem{ChecklistID: checklist.ID, Content: "First"})
	require.NoError(t, err)
	second, err := s.AddChecklistItem(ctx, model.ChecklistItem{ChecklistID: checklist.ID, Content: "Second"})
	require.NoError(t, err)

	other, err := s.CreateChecklist(ctx, model.Checklist{TaskID: task.ID, Name: "Elsewhere"})
	require.NoError(t, err)
	foreign, err := s.AddChecklistItem(ctx, model.ChecklistItem{ChecklistID: other.ID, Content: "Foreign"})
	require.NoError(t, err)

	err = s.ReorderChecklistItems(ctx, checklist.ID, []store.PositionAssignment{
		{ID: second.ID, Position: 0},
		{ID: first.ID, Position: 1},
		{ID: foreign.ID, Position: 99},
	})
	require.NoError(t, err)

	items, err := s.GetChecklistItems(ctx, checklist.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Second", items[0].Content)
	assert.Equal(t, "First", items[1].Content)

	// The out-of-scope item stays put in its own checklist.
	otherItems, err := s.GetChecklistItems(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, otherItems, 1)
	assert.Equal(t, foreign.ID, otherItems[0].ID)
	assert.Equal(t, 0, otherItems[0].Position)
}
