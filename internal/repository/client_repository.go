package repository

import (
	"context"
	"errors"

	"chatdesk/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrClientNotFound = errors.New("client not found")

type ClientRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewClientRepository(db *pgxpool.Pool, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	query := squirrel.Insert("clients").
		Columns("id", "api_key", "name", "created_at").
		Values(client.ID, client.APIKey, client.Name, client.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ClientRepository) GetByAPIKey(ctx context.Context, apiKey string) (*models.Client, error) {
	query := squirrel.Select("id", "api_key", "name", "created_at").
		From("clients").
		Where(squirrel.Eq{"api_key": apiKey}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var client models.Client
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&client.ID, &client.APIKey, &client.Name, &client.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	return &client, nil
}
