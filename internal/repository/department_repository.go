package repository

import (
	"context"
	"errors"
	"strings"

	"chatdesk/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrDepartmentNotFound = errors.New("department not found")

var departmentColumns = []string{
	"id", "client_id", "name", "keywords", "canned_response",
	"knowledge_base", "recipient", "position", "created_at", "updated_at",
}

type DepartmentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDepartmentRepository(db *pgxpool.Pool, logger *zap.Logger) *DepartmentRepository {
	return &DepartmentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	query := squirrel.Insert("departments").
		Columns(departmentColumns...).
		Values(dept.ID, dept.ClientID, dept.Name, dept.Keywords, dept.CannedResponse,
			dept.KnowledgeBase, dept.Recipient, dept.Position, dept.CreatedAt, dept.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DepartmentRepository) Update(ctx context.Context, dept *models.Department) error {
	query := squirrel.Update("departments").
		Set("name", dept.Name).
		Set("keywords", dept.Keywords).
		Set("canned_response", dept.CannedResponse).
		Set("knowledge_base", dept.KnowledgeBase).
		Set("recipient", dept.Recipient).
		Set("position", dept.Position).
		Set("updated_at", dept.UpdatedAt).
		Where(squirrel.Eq{"id": dept.ID, "client_id": dept.ClientID}).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	// created_at is immutable; read it back so callers return the full row.
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&dept.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDepartmentNotFound
		}
		return err
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, clientID, id uuid.UUID) error {
	query := squirrel.Delete("departments").
		Where(squirrel.Eq{"id": id, "client_id": clientID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

// List returns a client's departments in registration order. The keyword
// classifier relies on this order for first-match priority.
func (r *DepartmentRepository) List(ctx context.Context, clientID uuid.UUID) ([]models.Department, error) {
	query := squirrel.Select(departmentColumns...).
		From("departments").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("position ASC").
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

	var departments []models.Department
	for rows.Next() {
		var dept models.Department
		if err := scanDepartment(rows, &dept); err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}

	return departments, rows.Err()
}

// GetByName looks a department up by its case-insensitive name.
func (r *DepartmentRepository) GetByName(ctx context.Context, clientID uuid.UUID, name string) (*models.Department, error) {
	query := squirrel.Select(departmentColumns...).
		From("departments").
		Where(squirrel.Eq{"client_id": clientID}).
		Where("lower(name) = ?", strings.ToLower(name)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var dept models.Department
	if err := scanDepartment(r.db.QueryRow(ctx, sql, args...), &dept); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	return &dept, nil
}

func scanDepartment(row pgx.Row, dept *models.Department) error {
	return row.Scan(
		&dept.ID, &dept.ClientID, &dept.Name, &dept.Keywords, &dept.CannedResponse,
		&dept.KnowledgeBase, &dept.Recipient, &dept.Position, &dept.CreatedAt, &dept.UpdatedAt,
	)
}
