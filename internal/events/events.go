package events

import (
	"context"
	"time"

	"github.com/TWRT/monday-forms/internal/models"
)

const (
	TopicFormCreated   = "forms.form.created"
	TopicFormSubmitted = "forms.form.submitted"
)

type FormCreated struct {
	Form    models.FormSummary `json:"form"`
	FormURL string             `json:"form_url"`
	ItemID  string             `json:"item_id"`
}

type FormSubmitted struct {
	FormID      string          `json:"form_id"`
	Type        models.FormType `json:"type"`
	RecordID    string          `json:"record_id,omitempty"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	Error       string          `json:"error,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// Publisher fans form lifecycle events out to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
