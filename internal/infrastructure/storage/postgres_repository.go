package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"NewsScreener/internal/domain"
	"NewsScreener/internal/ports"
)

// psql builds queries with Postgres placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists screening results and report history.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ResultRepository = (*PostgresRepository)(nil)
var _ ports.HistoryRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// AlreadyProcessed returns a map with IDs that already exist in storage.
func (r *PostgresRepository) AlreadyProcessed(ctx context.Context, ids []string) (map[string]bool, error) {
	if r.db == nil || len(ids) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := psql.
		Select("external_id").
		From("screening_results").
		Where("external_id = ANY(?)", pq.StringArray(ids)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build processed query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query processed: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveResult upserts the screening result snapshot.
func (r *PostgresRepository) SaveResult(ctx context.Context, result domain.ScreeningResult) error {
	if r.db == nil {
		return nil
	}

	query, args, err := psql.
		Insert("screening_results").
		Columns("external_id", "source", "title", "url", "published_at",
			"label", "score", "reason", "status", "error_message").
		Values(result.Article.ID, result.Article.Source, result.Article.Title,
			result.Article.URL, result.Article.PublishedAt,
			result.Label, result.Score, result.Reason, result.Status, result.Error).
		Suffix(`ON CONFLICT (external_id) DO UPDATE
            SET label = EXCLUDED.label,
                score = EXCLUDED.score,
                reason = EXCLUDED.reason,
                status = EXCLUDED.status,
                error_message = EXCLUDED.error_message,
                updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

// Append stores a report summary in the history table.
func (r *PostgresRepository) Append(ctx context.Context, entry domain.HistoryEntry) error {
	if r.db == nil {
		return nil
	}

	query, args, err := psql.
		Insert("report_history").
		Columns("kind", "summary", "created_at").
		Values(string(entry.Kind), entry.Summary, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build history insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// Recent returns the n most recent summaries for a kind, oldest first.
func (r *PostgresRepository) Recent(ctx context.Context, kind domain.ReportKind, n int) ([]domain.HistoryEntry, error) {
	if r.db == nil || n <= 0 {
		return nil, nil
	}

	query, args, err := psql.
		Select("kind", "summary", "created_at").
		From("report_history").
		Where(sq.Eq{"kind": string(kind)}).
		OrderBy("created_at DESC").
		Limit(uint64(n)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var kindStr string
		if err := rows.Scan(&kindStr, &entry.Summary, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entry.Kind = domain.ReportKind(kindStr)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	// Reverse into chronological order for prompt building.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Prune deletes all but the newest keep entries for a kind.
func (r *PostgresRepository) Prune(ctx context.Context, kind domain.ReportKind, keep int) error {
	if r.db == nil || keep <= 0 {
		return nil
	}

	query := `DELETE FROM report_history
              WHERE kind = $1 AND id NOT IN (
                  SELECT id FROM report_history
                  WHERE kind = $1
                  ORDER BY created_at DESC
                  LIMIT $2
              )`
	if _, err := r.db.ExecContext(ctx, query, string(kind), keep); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}
