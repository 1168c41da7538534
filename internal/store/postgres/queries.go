package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/loom/internal/model"
)

// taskColumns is the column list used for SELECT statements on the tasks table.
const taskColumns = `id, title, description, status, cancel_reason,
	assignee, difficulty, created_at, updated_at`

// taskRelColumns extends taskColumns with the structural columns joined in
// from the edges table: session ID, ordering key, and parent ID.
const taskRelColumns = taskColumns + `,
	COALESCE(c.from_id, ''), COALESCE(c.ord, 0), COALESCE(p.from_id, '')`

// taskRelJoins attaches the contains and parent_of edges of each task.
const taskRelJoins = `
	LEFT JOIN edges c ON c.relation = 'contains' AND c.to_id = tasks.id
	LEFT JOIN edges p ON p.relation = 'parent_of' AND p.to_id = tasks.id`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateSession(ctx context.Context, db executor, s *model.Session) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (id, title, started_at)
		VALUES ($1, $2, $3)`,
		s.ID, s.Title, s.StartedAt,
	)
	return err
}

func queryGetSession(ctx context.Context, db executor, id string) (*model.Session, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, title, started_at FROM sessions WHERE id = $1`, id)
	s, err := scanSession(row)
	if err != nil {
		return nil, err
	}

	tasks, _, err := queryListTasks(ctx, db, model.TaskFilter{SessionID: id})
	if err != nil {
		return nil, err
	}
	s.Tasks = tasks

	return s, nil
}

func queryListSessions(ctx context.Context, db executor, limit, offset int) ([]*model.Session, int, error) {
	query := `SELECT COUNT(*) OVER() AS total_count, id, title, started_at
		FROM sessions ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	var total int
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&total, &s.ID, &s.Title, &s.StartedAt); err != nil {
			return nil, 0, fmt.Errorf("scan sessions: %w", err)
		}
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan sessions: %w", err)
	}

	return sessions, total, nil
}

func queryDeleteSession(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryCreateTask(ctx context.Context, db executor, t *model.Task) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, description, status, cancel_reason,
			assignee, difficulty, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID,
		t.Title,
		nullString(t.Description),
		string(t.Status),
		nullString(t.CancelReason),
		nullString(t.Assignee),
		t.Difficulty,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func queryGetTask(ctx context.Context, db executor, id string) (*model.Task, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+taskRelColumns+` FROM tasks`+taskRelJoins+` WHERE tasks.id = $1`, id)
	return scanTask(row)
}

func queryGetTasks(ctx context.Context, db executor, ids []string) ([]*model.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+taskRelColumns+` FROM tasks`+taskRelJoins+` WHERE tasks.id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func queryListTasks(ctx context.Context, db executor, filter model.TaskFilter) ([]*model.Task, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.SessionID != "" {
		whereClauses = append(whereClauses, "c.from_id = "+nextArg())
		args = append(args, filter.SessionID)
	}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.Assignee != "" {
		whereClauses = append(whereClauses, "assignee = "+nextArg())
		args = append(args, filter.Assignee)
	}

	if filter.Difficulty != nil {
		whereClauses = append(whereClauses, "difficulty = "+nextArg())
		args = append(args, *filter.Difficulty)
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(title ILIKE '%%' || %s || '%%' OR description ILIKE '%%' || %s || '%%')", p, p))
		args = append(args, filter.Search)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Session-scoped listings come back in session order; everything else
	// follows the requested sort.
	orderSQL := parseSortClause(filter.Sort)
	if filter.SessionID != "" && filter.Sort == "" {
		orderSQL = "c.ord ASC"
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + taskRelColumns +
		" FROM tasks" + taskRelJoins + whereSQL + " ORDER BY " + orderSQL

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	var total int
	for rows.Next() {
		t, n, err := scanTaskWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tasks: %w", err)
		}
		total = n
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan tasks: %w", err)
	}

	return tasks, total, nil
}

func queryUpdateTask(ctx context.Context, db executor, t *model.Task) error {
	return db.QueryRowContext(ctx, `
		UPDATE tasks SET
			title = $2,
			description = $3,
			status = $4,
			cancel_reason = $5,
			assignee = $6,
			difficulty = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		t.ID,
		t.Title,
		nullString(t.Description),
		string(t.Status),
		nullString(t.CancelReason),
		nullString(t.Assignee),
		t.Difficulty,
	).Scan(&t.UpdatedAt)
}

func queryDeleteTask(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryUpsertEdge(ctx context.Context, db executor, e *model.Edge) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO edges (relation, from_id, to_id, ord, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (relation, from_id, to_id) DO UPDATE SET ord = $4`,
		string(e.Relation), e.From, e.To, e.Ord,
	)
	return err
}

func queryDeleteEdge(ctx context.Context, db executor, relation model.Relation, from, to string) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM edges
		WHERE relation = $1 AND from_id = $2 AND to_id = $3`,
		string(relation), from, to,
	)
	return err
}

func queryDeleteEdgesTouching(ctx context.Context, db executor, node string) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM edges WHERE from_id = $1 OR to_id = $1`, node)
	return err
}

func queryListEdges(ctx context.Context, db executor) ([]*model.Edge, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT relation, from_id, to_id, ord, created_at
		FROM edges
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEdges(rows)
}

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (topic, entity_id, actor, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		e.Topic, e.EntityID, nullString(e.Actor), jsonbBytes(e.Payload),
	).Scan(&e.ID, &e.CreatedAt)
}

func queryGetEvents(ctx context.Context, db executor, entityID string) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, entity_id, actor, payload, created_at
		FROM events
		WHERE entity_id = $1
		ORDER BY created_at ASC`,
		entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func queryGetStats(ctx context.Context, db executor) (*model.GraphStats, error) {
	stats := &model.GraphStats{}
	err := db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0)
		FROM tasks`).Scan(
		&stats.TotalPending,
		&stats.TotalInProgress,
		&stats.TotalDone,
		&stats.TotalCancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return stats, nil
}

func parseSortClause(sort string) string {
	if sort == "" {
		return "created_at DESC"
	}
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	allowed := map[string]bool{
		"difficulty": true, "created_at": true, "updated_at": true,
		"title": true, "status": true,
	}
	if !allowed[col] {
		return "created_at DESC"
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}
