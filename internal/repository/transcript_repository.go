package repository

import (
	"context"

	"chatdesk/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TranscriptRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTranscriptRepository(db *pgxpool.Pool, logger *zap.Logger) *TranscriptRepository {
	return &TranscriptRepository{
		db:     db,
		logger: logger,
	}
}

// Append writes one transcript entry. Entries are never updated or deleted.
func (r *TranscriptRepository) Append(ctx context.Context, entry *models.TranscriptEntry) error {
	query := squirrel.Insert("transcript_entries").
		Columns("id", "client_id", "session_id", "sender", "message", "department", "created_at").
		Values(entry.ID, entry.ClientID, entry.SessionID, entry.Sender, entry.Message, entry.Department, entry.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListBySession returns a session's transcript in write order.
func (r *TranscriptRepository) ListBySession(ctx context.Context, clientID uuid.UUID, sessionID string) ([]models.TranscriptEntry, error) {
	query := squirrel.Select("id", "client_id", "session_id", "sender", "message", "department", "created_at").
		From("transcript_entries").
		Where(squirrel.Eq{"client_id": clientID, "session_id": sessionID}).
		OrderBy("created_at ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TranscriptEntry
	for rows.Next() {
		var entry models.TranscriptEntry
		if err := rows.Scan(
			&entry.ID, &entry.ClientID, &entry.SessionID, &entry.Sender,
			&entry.Message, &entry.Department, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
