package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/alfredjeanlab/loom/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanSession scans a single row into a model.Session.
func scanSession(row scannable) (*model.Session, error) {
	var s model.Session
	if err := row.Scan(&s.ID, &s.Title, &s.StartedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// scanTask scans a single row into a model.Task.
// The row must contain columns in the order defined by taskRelColumns.
func scanTask(row scannable) (*model.Task, error) {
	var t model.Task
	var (
		description  sql.NullString
		cancelReason sql.NullString
		assignee     sql.NullString
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&description,
		&t.Status,
		&cancelReason,
		&assignee,
		&t.Difficulty,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.SessionID,
		&t.Order,
		&t.ParentID,
	)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	t.CancelReason = cancelReason.String
	t.Assignee = assignee.String

	return &t, nil
}

// scanTaskWithTotal scans a row that has a leading total_count column
// followed by the standard task columns. Used by queryListTasks with
// COUNT(*) OVER().
func scanTaskWithTotal(row scannable) (*model.Task, int, error) {
	var total int
	var t model.Task
	var (
		description  sql.NullString
		cancelReason sql.NullString
		assignee     sql.NullString
	)

	err := row.Scan(
		&total,
		&t.ID,
		&t.Title,
		&description,
		&t.Status,
		&cancelReason,
		&assignee,
		&t.Difficulty,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.SessionID,
		&t.Order,
		&t.ParentID,
	)
	if err != nil {
		return nil, 0, err
	}

	t.Description = description.String
	t.CancelReason = cancelReason.String
	t.Assignee = assignee.String

	return &t, total, nil
}

// scanTasks scans multiple rows into a slice of model.Task pointers.
func scanTasks(rows *sql.Rows) ([]*model.Task, error) {
	var tasks []*model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// scanEdge scans a single row into a model.Edge.
func scanEdge(row scannable) (*model.Edge, error) {
	var e model.Edge
	if err := row.Scan(&e.Relation, &e.From, &e.To, &e.Ord, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// scanEdges scans multiple rows into a slice of model.Edge pointers.
func scanEdges(rows *sql.Rows) ([]*model.Edge, error) {
	var edges []*model.Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return edges, nil
}

// scanEvent scans a single row into a model.Event.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var (
		actor   sql.NullString
		payload []byte
	)
	err := row.Scan(&e.ID, &e.Topic, &e.EntityID, &actor, &payload, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Actor = actor.String
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}

// scanEvents scans multiple rows into a slice of model.Event pointers.
func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// jsonbBytes converts json.RawMessage to a []byte suitable for JSONB columns.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}
