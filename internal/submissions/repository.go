package submissions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/formtemplates/backend/internal/models"
)

// Store is the persistence surface the handlers need. Submissions are
// immutable: there are no update or delete operations.
type Store interface {
	Create(ctx context.Context, s *models.Submission) error
	List(ctx context.Context) ([]models.Submission, error)
	ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]models.Submission, error)
}

// Repository handles submission persistence. Answer lists are stored
// as a JSONB document per submission, mirroring the original store's
// document shape.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a submissions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new submission. The store assigns the id and stamps
// created_at; submitted_at is the caller's capture time.
func (r *Repository) Create(ctx context.Context, s *models.Submission) error {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	const q = `INSERT INTO submissions (template_id, submitted_by, submitted_at, answers)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, s.TemplateID, s.SubmittedBy, s.SubmittedAt, answers).
		Scan(&s.ID, &s.CreatedAt)
}

// List returns a full snapshot of all submissions in insertion order.
// The reporting view treats the last element as the latest response.
func (r *Repository) List(ctx context.Context) ([]models.Submission, error) {
	const q = `SELECT id, template_id, submitted_by, submitted_at, created_at, answers
		FROM submissions ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ListByTemplate returns all submissions answering one template.
func (r *Repository) ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]models.Submission, error) {
	const q = `SELECT id, template_id, submitted_by, submitted_at, created_at, answers
		FROM submissions WHERE template_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]models.Submission, error) {
	var list []models.Submission
	for rows.Next() {
		var (
			s   models.Submission
			raw []byte
		)
		if err := rows.Scan(&s.ID, &s.TemplateID, &s.SubmittedBy, &s.SubmittedAt, &s.CreatedAt, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &s.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
