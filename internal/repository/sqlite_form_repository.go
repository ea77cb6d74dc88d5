package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/TWRT/monday-forms/internal/models"
)

// createdAtLayout has a fixed width so created_at sorts lexically.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteFormRepository keeps each form as a JSON document next to the
// columns needed for listing.
type SQLiteFormRepository struct {
	db *sql.DB
}

func NewSQLiteFormRepository(db *sql.DB) *SQLiteFormRepository {
	return &SQLiteFormRepository{db: db}
}

func (r *SQLiteFormRepository) Create(ctx context.Context, form *models.Form) error {
	document, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("encode form %s: %w", form.ID, err)
	}
	headers, err := json.Marshal(form.HeaderData)
	if err != nil {
		return fmt.Errorf("encode header data %s: %w", form.ID, err)
	}

	query := `
		INSERT INTO forms (id, type, document, header_data, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		form.ID,
		string(form.Type),
		string(document),
		string(headers),
		form.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("create form %s: %w", form.ID, err)
	}
	return nil
}

func (r *SQLiteFormRepository) Get(ctx context.Context, id string) (*models.Form, error) {
	var document string
	err := r.db.QueryRowContext(ctx, `SELECT document FROM forms WHERE id = ?`, id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get form %s: %w", id, err)
	}

	var form models.Form
	if err := json.Unmarshal([]byte(document), &form); err != nil {
		return nil, fmt.Errorf("decode form %s: %w", id, err)
	}
	return &form, nil
}

func (r *SQLiteFormRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete form %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete form %s: %w", id, err)
	}
	if affected == 0 {
		return ErrFormNotFound
	}
	return nil
}

func (r *SQLiteFormRepository) List(ctx context.Context) ([]models.FormSummary, error) {
	query := `
		SELECT id, type, header_data, created_at FROM forms ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	summaries := []models.FormSummary{}
	for rows.Next() {
		var (
			s         models.FormSummary
			formType  string
			headers   string
			createdAt string
		)
		if err := rows.Scan(&s.ID, &formType, &headers, &createdAt); err != nil {
			return nil, fmt.Errorf("scan form summary: %w", err)
		}
		s.Type = models.FormType(formType)
		if err := json.Unmarshal([]byte(headers), &s.HeaderData); err != nil {
			return nil, fmt.Errorf("decode header data %s: %w", s.ID, err)
		}
		s.CreatedAt, err = time.Parse(createdAtLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %s: %w", s.ID, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forms: %w", err)
	}
	return summaries, nil
}
