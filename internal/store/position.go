package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PositionAssignment pairs an item ID with its requested position.
type PositionAssignment struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// nextPosition returns max(position)+1 within a sibling scope, so new
// items always sort last. The query must select COALESCE(MAX(position), ...)
// for the scope, e.g.
//
//	SELECT COALESCE(MAX(position), -1) FROM statuses WHERE task_list_id = ?
func nextPosition(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (int, error) {
	var maxPos int
	if err := sqlx.GetContext(ctx, q, &maxPos, query, args...); err != nil {
		return 0, fmt.Errorf("getting max position: %w", err)
	}
	return maxPos + 1, nil
}

// applyReorder writes the requested positions one assignment at a time.
// The UPDATE carries the scope condition, so an assignment referencing an
// item outside the scope affects zero rows and is skipped silently;
// untouched siblings are never renumbered. Positions may end up
// non-contiguous or duplicated; readers break ties on a secondary sort
// key.
func applyReorder(ctx context.Context, e sqlx.ExecerContext, query string, scopeID string, assignments []PositionAssignment) error {
	for _, a := range assignments {
		if _, err := e.ExecContext(ctx, query, a.Position, a.ID, scopeID); err != nil {
			return fmt.Errorf("repositioning item %s: %w", a.ID, err)
		}
	}
	return nil
}
