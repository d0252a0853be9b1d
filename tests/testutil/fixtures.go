package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/taskhive/taskhive/internal/model"
	"github.com/taskhive/taskhive/internal/store"
)

// Fixture is a ready-made workspace tree for store tests: one user
// owning one workspace containing one space with one task list, the
// list carrying its seeded default statuses.
type Fixture struct {
	User      *model.User
	Workspace *model.Workspace
	Space     *model.Space
	List      *model.TaskList
	Statuses  []model.Status
}

var fixtureSeq atomic.Int64

// NewFixture builds the standard workspace tree, failing the test on any
// setup error.
func NewFixture(t *testing.T, s *store.SQLiteStore) *Fixture {
	t.Helper()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, model.User{
		Name:  "Test User",
		Email: fmt.Sprintf("user%d@example.com", fixtureSeq.Add(1)),
	})
	if err != nil {
		t.Fatalf("creating fixture user: %v", err)
	}

	ws, err := s.CreateWorkspace(ctx, model.Workspace{
		Name:    "Acme Inc",
		OwnerID: user.ID,
	})
	if err != nil {
		t.Fatalf("creating fixture workspace: %v", err)
	}

	space, err := s.CreateSpace(ctx, model.Space{
		WorkspaceID: ws.ID,
		Name:        "Engineering",
		Slug:        "engineering",
	})
	if err != nil {
		t.Fatalf("creating fixture space: %v", err)
	}

	list, err := s.CreateTaskList(ctx, model.TaskList{
		SpaceID: space.ID,
		Name:    "API Development",
		Slug:    "api-development",
	})
	if err != nil {
		t.Fatalf("creating fixture list: %v", err)
	}

	statuses, err := s.GetListStatuses(ctx, list.ID)
	if err != nil {
		t.Fatalf("loading fixture statuses: %v", err)
	}

	return &Fixture{
		User:      user,
		Workspace: ws,
		Space:     space,
		List:      list,
		Statuses:  statuses,
	}
}

// NewUser creates an additional user with a unique email.
func NewUser(t *testing.T, s *store.SQLiteStore, name string) *model.User {
	t.Helper()

	user, err := s.CreateUser(context.Background(), model.User{
		Name:  name,
		Email: fmt.Sprintf("user%d@example.com", fixtureSeq.Add(1)),
	})
	if err != nil {
		t.Fatalf("creating user %s: %v", name, err)
	}
	return user
}

// NewTask creates a task in the fixture's list.
func NewTask(t *testing.T, s *store.SQLiteStore, f *Fixture, title string) *model.Task {
	t.Helper()

	task, err := s.CreateTask(context.Background(), f.User.ID, model.Task{
		TaskListID: f.List.ID,
		Title:      title,
	})
	if err != nil {
		t.Fatalf("creating task %q: %v", title, err)
	}
	return task
}

// StatusNamed returns the fixture status with the given name.
func (f *Fixture) StatusNamed(t *testing.T, name string) *model.Status {
	t.Helper()

	for i := range f.Statuses {
		if f.Statuses[i].Name == name {
			return &f.Statuses[i]
		}
	}
	t.Fatalf("fixture has no status named %q", name)
	return nil
}
