package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS workspaces (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	color       TEXT NOT NULL DEFAULT '',
	owner_id    TEXT NOT NULL REFERENCES users(id),
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	deleted_at  DATETIME
);

CREATE TABLE IF NOT EXISTS workspace_members (
	workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
	user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role         TEXT NOT NULL DEFAULT 'member'
	             CHECK(role IN ('owner', 'admin', 'member', 'guest')),
	joined_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (workspace_id, user_id)
);

CREATE TABLE IF NOT EXISTS spaces (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	slug         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	color        TEXT NOT NULL DEFAULT '',
	icon         TEXT NOT NULL DEFAULT '',
	is_private   INTEGER NOT NULL DEFAULT 0 CHECK(is_private IN (0, 1)),
	position     INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	deleted_at   DATETIME,
	UNIQUE (workspace_id, slug)
);

CREATE TABLE IF NOT EXISTS space_members (
	space_id TEXT NOT NULL REFERENCES spaces(id) ON DELETE CASCADE,
	user_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	PRIMARY KEY (space_id, user_id)
);

CREATE TABLE IF NOT EXISTS folders (
	id         TEXT PRIMARY KEY,
	space_id   TEXT NOT NULL REFERENCES spaces(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '',
	position   INTEGER NOT NULL DEFAULT 0,
	is_hidden  INTEGER NOT NULL DEFAULT 0 CHECK(is_hidden IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS task_lists (
	id           TEXT PRIMARY KEY,
	space_id     TEXT NOT NULL REFERENCES spaces(id) ON DELETE CASCADE,
	folder_id    TEXT REFERENCES folders(id) ON DELETE SET NULL,
	name         TEXT NOT NULL,
	slug         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	color        TEXT NOT NULL DEFAULT '',
	position     INTEGER NOT NULL DEFAULT 0,
	task_counter INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	deleted_at   DATETIME
);

CREATE TABLE IF NOT EXISTS statuses (
	id           TEXT PRIMARY KEY,
	task_list_id TEXT NOT NULL REFERENCES task_lists(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	color        TEXT NOT NULL DEFAULT '',
	type         TEXT NOT NULL DEFAULT 'custom'
	             CHECK(type IN ('open', 'in_progress', 'done', 'closed', 'custom')),
	position     INTEGER NOT NULL DEFAULT 0,
	is_default   INTEGER NOT NULL DEFAULT 0 CHECK(is_default IN (0, 1)),
	is_closed    INTEGER NOT NULL DEFAULT 0 CHECK(is_closed IN (0, 1)),
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id            TEXT PRIMARY KEY,
	task_list_id  TEXT NOT NULL REFERENCES task_lists(id) ON DELETE CASCADE,
	status_id     TEXT REFERENCES statuses(id),
	parent_id     TEXT REFERENCES tasks(id) ON DELETE CASCADE,
	created_by    TEXT NOT NULL REFERENCES users(id),
	title         TEXT NOT NULL,
	identifier    TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	priority      INTEGER NOT NULL DEFAULT 3 CHECK(priority BETWEEN 1 AND 4),
	start_date    DATETIME,
	due_date      DATETIME,
	completed_at  DATETIME,
	time_estimate INTEGER NOT NULL DEFAULT 0,
	time_spent    INTEGER NOT NULL DEFAULT 0,
	position      INTEGER NOT NULL DEFAULT 0,
	is_archived   INTEGER NOT NULL DEFAULT 0 CHECK(is_archived IN (0, 1)),
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	deleted_at    DATETIME
);

CREATE TABLE IF NOT EXISTS task_users (
	task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role       TEXT NOT NULL CHECK(role IN ('assignee', 'watcher')),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (task_id, user_id, role)
);

CREATE TABLE IF NOT EXISTS checklists (
	id         TEXT PRIMARY KEY,
	task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	position   INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS checklist_items (
	id           TEXT PRIMARY KEY,
	checklist_id TEXT NOT NULL REFERENCES checklists(id) ON DELETE CASCADE,
	assignee_id  TEXT REFERENCES users(id) ON DELETE SET NULL,
	content      TEXT NOT NULL,
	is_completed INTEGER NOT NULL DEFAULT 0 CHECK(is_completed IN (0, 1)),
	completed_at DATETIME,
	due_date     DATETIME,
	position     INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS comments (
	id          TEXT PRIMARY KEY,
	task_id     TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id     TEXT NOT NULL REFERENCES users(id),
	parent_id   TEXT REFERENCES comments(id) ON DELETE CASCADE,
	content     TEXT NOT NULL,
	is_resolved INTEGER NOT NULL DEFAULT 0 CHECK(is_resolved IN (0, 1)),
	resolved_at DATETIME,
	resolved_by TEXT REFERENCES users(id),
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	deleted_at  DATETIME
);

CREATE TABLE IF NOT EXISTS mentions (
	id         TEXT PRIMARY KEY,
	comment_id TEXT NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (comment_id, user_id)
);

CREATE TABLE IF NOT EXISTS time_entries (
	id          TEXT PRIMARY KEY,
	task_id     TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id     TEXT NOT NULL REFERENCES users(id),
	description TEXT NOT NULL DEFAULT '',
	started_at  DATETIME NOT NULL,
	ended_at    DATETIME,
	duration    INTEGER NOT NULL DEFAULT 0,
	is_billable INTEGER NOT NULL DEFAULT 0 CHECK(is_billable IN (0, 1)),
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS activities (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT REFERENCES workspaces(id) ON DELETE CASCADE,
	user_id      TEXT REFERENCES users(id),
	subject_id   TEXT NOT NULL,
	subject_type TEXT NOT NULL,
	type         TEXT NOT NULL,
	properties   TEXT NOT NULL DEFAULT '{}',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_spaces_workspace ON spaces(workspace_id, position);
CREATE INDEX IF NOT EXISTS idx_folders_space ON folders(space_id, position);
CREATE INDEX IF NOT EXISTS idx_task_lists_space ON task_lists(space_id, position);
CREATE INDEX IF NOT EXISTS idx_task_lists_folder ON task_lists(folder_id);
CREATE INDEX IF NOT EXISTS idx_statuses_list ON statuses(task_list_id, position);
CREATE INDEX IF NOT EXISTS idx_tasks_list ON tasks(task_list_id, position);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status_id);
CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id);
CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
CREATE INDEX IF NOT EXISTS idx_checklists_task ON checklists(task_id, position);
CREATE INDEX IF NOT EXISTS idx_checklist_items_checklist ON checklist_items(checklist_id, position);
CREATE INDEX IF NOT EXISTS idx_comments_task ON comments(task_id);
CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id);
CREATE INDEX IF NOT EXISTS idx_time_entries_task ON time_entries(task_id);
CREATE INDEX IF NOT EXISTS idx_time_entries_user ON time_entries(user_id, ended_at);
CREATE INDEX IF NOT EXISTS idx_activities_workspace ON activities(workspace_id, created_at);
CREATE INDEX IF NOT EXISTS idx_activities_subject ON activities(subject_type, subject_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS tags (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	color        TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (workspace_id, name)
);

CREATE TABLE IF NOT EXISTS taggables (
	tag_id        TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
	taggable_id   TEXT NOT NULL,
	taggable_type TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (tag_id, taggable_id, taggable_type)
);

CREATE TABLE IF NOT EXISTS custom_fields (
	id            TEXT PRIMARY KEY,
	workspace_id  TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
	name          TEXT NOT NULL,
	type          TEXT NOT NULL
	              CHECK(type IN ('text', 'number', 'date', 'dropdown', 'checkbox',
	                             'url', 'email', 'phone', 'currency', 'rating',
	                             'progress', 'label')),
	options       TEXT NOT NULL DEFAULT '[]',
	is_required   INTEGER NOT NULL DEFAULT 0 CHECK(is_required IN (0, 1)),
	default_value TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS custom_field_lists (
	custom_field_id TEXT NOT NULL REFERENCES custom_fields(id) ON DELETE CASCADE,
	task_list_id    TEXT NOT NULL REFERENCES task_lists(id) ON DELETE CASCADE,
	position        INTEGER NOT NULL DEFAULT 0,
	is_visible      INTEGER NOT NULL DEFAULT 1 CHECK(is_visible IN (0, 1)),
	PRIMARY KEY (custom_field_id, task_list_id)
);

CREATE TABLE IF NOT EXISTS custom_field_values (
	id              TEXT PRIMARY KEY,
	custom_field_id TEXT NOT NULL REFERENCES custom_fields(id) ON DELETE CASCADE,
	task_id         TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	value           TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (custom_field_id, task_id)
);

CREATE INDEX IF NOT EXISTS idx_taggables_subject ON taggables(taggable_type, taggable_id);
CREATE INDEX IF NOT EXISTS idx_custom_fields_workspace ON custom_fields(workspace_id);
CREATE INDEX IF NOT EXISTS idx_custom_field_values_task ON custom_field_values(task_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
