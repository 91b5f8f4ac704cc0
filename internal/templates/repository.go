package templates

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/formtemplates/backend/internal/models"
)

// Store is the persistence surface the handlers need. Templates are
// immutable: there are no update or delete operations.
type Store interface {
	Create(ctx context.Context, in models.TemplateInput, createdBy string) (*models.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	List(ctx context.Context) ([]models.Template, error)
}

// Repository handles template persistence. Question lists are stored
// as a JSONB document per template, mirroring the original store's
// document shape.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a templates repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new template. The store assigns the id and stamps
// created_at.
func (r *Repository) Create(ctx context.Context, in models.TemplateInput, createdBy string) (*models.Template, error) {
	questions, err := json.Marshal(in.Questions)
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	const q = `INSERT INTO templates (title, topic, questions, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	t := &models.Template{
		Title:     in.Title,
		Topic:     in.Topic,
		Questions: in.Questions,
		CreatedBy: createdBy,
	}
	if err := r.pool.QueryRow(ctx, q, in.Title, string(in.Topic), questions, createdBy).
		Scan(&t.ID, &t.CreatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID returns a template by ID. Returns pgx.ErrNoRows when no such
// template exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	const q = `SELECT id, title, topic, questions, created_by, created_at FROM templates WHERE id = $1`
	return scanTemplate(r.pool.QueryRow(ctx, q, id))
}

// List returns a full snapshot of all templates. No pagination: the
// reporting view consumes the entire set.
func (r *Repository) List(ctx context.Context) ([]models.Template, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title, topic, questions, created_by, created_at FROM templates ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

func scanTemplate(row pgx.Row) (*models.Template, error) {
	var (
		t     models.Template
		topic string
		raw   []byte
	)
	if err := row.Scan(&t.ID, &t.Title, &topic, &raw, &t.CreatedBy, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Topic = models.Topic(topic)
	if err := json.Unmarshal(raw, &t.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return &t, nil
}
