package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/TWRT/monday-forms/internal/models"
)

var ErrFormNotFound = errors.New("form not found")

// FormRepository stores generated forms for the lifetime of the process.
type FormRepository interface {
	Create(ctx context.Context, form *models.Form) error
	Get(ctx context.Context, id string) (*models.Form, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.FormSummary, error)
}

type MemoryFormRepository struct {
	mu    sync.RWMutex
	forms map[string]*models.Form
}

func NewMemoryFormRepository() *MemoryFormRepository {
	return &MemoryFormRepository{forms: make(map[string]*models.Form)}
}

func (r *MemoryFormRepository) Create(_ context.Context, form *models.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms[form.ID] = form
	return nil
}

func (r *MemoryFormRepository) Get(_ context.Context, id string) (*models.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	form, ok := r.forms[id]
	if !ok {
		return nil, ErrFormNotFound
	}
	return form, nil
}

func (r *MemoryFormRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[id]; !ok {
		return ErrFormNotFound
	}
	delete(r.forms, id)
	return nil
}

func (r *MemoryFormRepository) List(_ context.Context) ([]models.FormSummary, error) {
	r.mu.RLock()
	summaries := make([]models.FormSummary, 0, len(r.forms))
	for _, form := range r.forms {
		summaries = append(summaries, form.Summary())
	}
	r.mu.RUnlock()

	sortSummaries(summaries)
	return summaries, nil
}

func sortSummaries(summaries []models.FormSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
}
