package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TWRT/monday-forms/internal/client"
	"github.com/TWRT/monday-forms/internal/events"
	"github.com/TWRT/monday-forms/internal/models"
)

const DefaultRecordName = "Resposta do Formulário"

var (
	ErrNoDestinationBoard = errors.New("board_b not configured")
	ErrNoOriginItem       = errors.New("origin item id missing from webhook data")
)

// placeholderValues are error markers that must never be written back.
var placeholderValues = map[string]bool{
	"Dados não encontrados":   true,
	"Erro ao carregar dados":  true,
	"Dados não disponíveis":   true,
	"Configuração incompleta": true,
}

// UpdateEntry is one column write against the newly created record.
type UpdateEntry struct {
	ColumnID    string
	Value       string
	Description string
}

// Outcome summarizes one reconciliation. Created reports whether the
// destination record exists; column failures do not affect it.
type Outcome struct {
	RecordID  string
	Created   bool
	Attempted int
	Succeeded int
	Failed    int
	Err       error
}

// Reconciler replays a submitted form onto the destination board.
type Reconciler struct {
	writer    recordWriter
	configs   ConfigSource
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

type recordWriter interface {
	client.RecordCreator
	client.ColumnWriter
}

func NewReconciler(writer recordWriter, configs ConfigSource, publisher events.Publisher, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Reconciler{
		writer:    writer,
		configs:   configs,
		publisher: publisher,
		logger:    logger.Named("reconciler"),
		now:       time.Now,
	}
}

// Reconcile creates the destination record and applies every update entry.
// It never returns an error; failures are logged and reported in Outcome.
func (r *Reconciler) Reconcile(ctx context.Context, form *models.Form, answers map[string]string) Outcome {
	log := r.logger.With(zap.String("form_id", form.ID), zap.String("form_type", string(form.Type)))
	outcome := r.reconcile(ctx, log, form, answers)

	event := events.FormSubmitted{
		FormID:      form.ID,
		Type:        form.Type,
		RecordID:    outcome.RecordID,
		Succeeded:   outcome.Succeeded,
		Failed:      outcome.Failed,
		SubmittedAt: r.now().UTC(),
	}
	if outcome.Err != nil {
		event.Error = outcome.Err.Error()
	}
	if err := r.publisher.Publish(ctx, events.TopicFormSubmitted, event); err != nil {
		log.Warn("publish form submitted", zap.Error(err))
	}
	return outcome
}

func (r *Reconciler) reconcile(ctx context.Context, log *zap.Logger, form *models.Form, answers map[string]string) Outcome {
	cfg := r.configs.Load()[form.Type]
	boardB := cfg.BoardB.String()
	if boardB == "" {
		log.Warn("no destination board configured, submission not written back")
		return Outcome{Err: ErrNoDestinationBoard}
	}

	webhook := decodeWebhook(form.WebhookData)
	if webhook.Event.PulseID.String() == "" {
		log.Error("submission not written back", zap.Error(ErrNoOriginItem))
		return Outcome{Err: ErrNoOriginItem}
	}

	name := RecordName(form.HeaderData, webhook.Event.PulseName)
	recordID, err := r.writer.CreateRecord(ctx, boardB, name)
	if err != nil {
		log.Error("create record on destination board", zap.String("board_id", boardB), zap.Error(err))
		return Outcome{Err: fmt.Errorf("create record: %w", err)}
	}
	log = log.With(zap.String("record_id", recordID), zap.String("board_id", boardB))
	log.Info("destination record created", zap.String("name", name))

	outcome := Outcome{RecordID: recordID, Created: true}
	for _, entry := range BuildUpdateBatch(form, answers) {
		outcome.Attempted++
		if err := r.writer.UpdateColumn(ctx, boardB, recordID, entry.ColumnID, entry.Value); err != nil {
			outcome.Failed++
			log.Error("column update failed", zap.String("column_id", entry.ColumnID), zap.String("entry", entry.Description), zap.Error(err))
			continue
		}
		outcome.Succeeded++
	}
	log.Info("submission written back", zap.Int("succeeded", outcome.Succeeded), zap.Int("failed", outcome.Failed))
	return outcome
}

// RecordName picks the destination record name: the trip header, then the
// webhook item name, then a generic label.
func RecordName(headers map[string]string, pulseName string) string {
	if name := strings.TrimSpace(headers[models.HeaderTrip]); name != "" {
		return name
	}
	if name := strings.TrimSpace(pulseName); name != "" {
		return name
	}
	return DefaultRecordName
}

// BuildUpdateBatch lists the column writes for a submission: header fields
// first, then answers and resolved column values in question order.
func BuildUpdateBatch(form *models.Form, answers map[string]string) []UpdateEntry {
	var batch []UpdateEntry
	for _, hc := range HeaderDestinationColumns {
		if value := form.HeaderData[hc.Header]; strings.TrimSpace(value) != "" {
			batch = append(batch, UpdateEntry{ColumnID: hc.Column, Value: value, Description: "header " + hc.Header})
		}
	}

	for _, q := range form.Questions {
		if q.IsDivider() {
			continue
		}
		answer := answers[q.ID]
		if strings.TrimSpace(answer) != "" && strings.TrimSpace(q.DestinationColumn) != "" {
			batch = append(batch, UpdateEntry{
				ColumnID:    q.DestinationColumn,
				Value:       TransformAnswer(answer),
				Description: "answer " + q.ID,
			})
		}
		if q.IsRemoteSourced() && strings.TrimSpace(q.QuestionDestinationColumn) != "" && writableColumnValue(q.ColumnValue) {
			batch = append(batch, UpdateEntry{
				ColumnID:    q.QuestionDestinationColumn,
				Value:       q.ColumnValue,
				Description: "column value " + q.ID,
			})
		}
	}
	return batch
}

// TransformAnswer localizes the yes/no tokens; anything else passes through.
func TransformAnswer(answer string) string {
	switch answer {
	case "yes":
		return "Sim"
	case "no":
		return "Não"
	default:
		return answer
	}
}

func writableColumnValue(v string) bool {
	return strings.TrimSpace(v) != "" && !placeholderValues[v]
}

func decodeWebhook(raw json.RawMessage) models.WebhookPayload {
	payload, err := models.ParseWebhookPayload(raw)
	if err != nil {
		return models.WebhookPayload{}
	}
	return payload
}
