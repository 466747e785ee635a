package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
)

const (
	postgresTable   = "agentplatform_call_journal"
	postgresColumns = "id, trace_id, method, org_id, agent_id, code, kind, duration_ms, timestamp, error"
	numFields       = 10
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS ` + postgresTable + ` (
	id          UUID PRIMARY KEY,
	trace_id    TEXT NOT NULL,
	method      TEXT NOT NULL,
	org_id      TEXT NOT NULL DEFAULT '',
	agent_id    TEXT NOT NULL DEFAULT '',
	code        TEXT NOT NULL,
	kind        TEXT NOT NULL DEFAULT '',
	duration_ms BIGINT NOT NULL,
	timestamp   TIMESTAMPTZ NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
)`

// PostgresSink writes batches with one multi-row INSERT.
type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(connString string, maxConns int) (*PostgresSink, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if maxConns <= 0 {
		maxConns = 5
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &PostgresSink{db: db}, nil
}

// EnsureSchema creates the journal table if it is missing.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("postgres: create journal table: %w", err)
	}
	return nil
}

func (s *PostgresSink) WriteBatch(ctx context.Context, events []CallEvent) error {
	if len(events) == 0 {
		return nil
	}
	query, args := buildInsert(events)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: insert %d journal events: %w", len(events), err)
	}
	return nil
}

func (s *PostgresSink) Close() error {
	return s.db.Close()
}

func buildInsert(events []CallEvent) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("INSERT INTO " + postgresTable + " (" + postgresColumns + ") VALUES ")

	args := make([]interface{}, 0, len(events)*numFields)
	for i, e := range events {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for f := 1; f <= numFields; f++ {
			if f > 1 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", i*numFields+f)
		}
		b.WriteByte(')')

		args = append(args,
			e.ID, e.TraceID, e.Method, e.OrgID, e.AgentID,
			e.Code, e.Kind, e.DurationMs, e.Timestamp, e.Error,
		)
	}
	return b.String(), args
}
