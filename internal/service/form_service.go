package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TWRT/monday-forms/internal/client"
	"github.com/TWRT/monday-forms/internal/events"
	"github.com/TWRT/monday-forms/internal/models"
	"github.com/TWRT/monday-forms/internal/repository"
)

var (
	// ErrConfigIncomplete is returned when a form type cannot be served with
	// the current configuration.
	ErrConfigIncomplete = errors.New("configuration incomplete")
	// ErrInvalidWebhook is returned for payloads that cannot produce a form.
	ErrInvalidWebhook = errors.New("invalid webhook")
)

// ConfigSource returns the forms configuration. Implementations are expected
// to read it fresh on every call.
type ConfigSource interface {
	Load() models.Config
}

type formTitle struct {
	Title    string
	Subtitle string
	Label    string
}

var formTitles = map[models.FormType]formTitle{
	models.FormTypeGuias: {
		Title:    "Formulário de Avaliação para Guias",
		Subtitle: "Avalie nossa viagem",
		Label:    "Guias",
	},
	models.FormTypeClientes: {
		Title:    "Formulário de Avaliação - Clientes",
		Subtitle: "Avalie nossa experiência como cliente",
		Label:    "Clientes",
	},
	models.FormTypeFornecedores: {
		Title:    "Avaliação de Fornecedor",
		Subtitle: "Por favor, preencha este formulário para avaliar o fornecedor",
		Label:    "Fornecedores",
	},
}

type FormService struct {
	client    client.BoardClient
	repo      repository.FormRepository
	mapper    *QuestionMapper
	configs   ConfigSource
	publisher events.Publisher
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewFormService(
	boardClient client.BoardClient,
	repo repository.FormRepository,
	mapper *QuestionMapper,
	configs ConfigSource,
	publisher events.Publisher,
	logger *zap.Logger,
) *FormService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if mapper == nil {
		mapper = NewQuestionMapper(logger)
	}
	return &FormService{
		client:    boardClient,
		repo:      repo,
		mapper:    mapper,
		configs:   configs,
		publisher: publisher,
		logger:    logger.Named("forms"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

type CreateFormInput struct {
	Type        models.FormType
	Title       string
	Subtitle    string
	Questions   []models.Question
	HeaderData  map[string]string
	WebhookData json.RawMessage
}

// Create stamps an id and creation time on a new form and stores it.
func (s *FormService) Create(ctx context.Context, in CreateFormInput) (*models.Form, error) {
	headers := in.HeaderData
	if headers == nil {
		headers = map[string]string{}
	}
	questions := in.Questions
	if questions == nil {
		questions = []models.Question{}
	}
	form := &models.Form{
		ID:          s.newID(),
		Type:        in.Type,
		Title:       in.Title,
		Subtitle:    in.Subtitle,
		Questions:   questions,
		HeaderData:  headers,
		WebhookData: in.WebhookData,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("store form: %w", err)
	}
	return form, nil
}

func (s *FormService) Get(ctx context.Context, id string) (*models.Form, error) {
	return s.repo.Get(ctx, id)
}

func (s *FormService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *FormService) List(ctx context.Context) ([]models.FormSummary, error) {
	return s.repo.List(ctx)
}

// WebhookResult is either a challenge to echo back or a generated form.
type WebhookResult struct {
	Challenge json.RawMessage
	FormID    string
	FormURL   string
	Message   string
}

// GenerateForm turns one webhook delivery into a stored form. baseURL is the
// public origin the form URL is built on, without a trailing slash.
func (s *FormService) GenerateForm(ctx context.Context, formType models.FormType, raw []byte, baseURL string) (*WebhookResult, error) {
	payload, err := models.ParseWebhookPayload(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}
	if payload.HasChallenge() {
		return &WebhookResult{Challenge: payload.Challenge}, nil
	}

	titles, ok := formTitles[formType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown form type %q", ErrConfigIncomplete, formType)
	}

	cfg := s.configs.Load()[formType]
	if len(cfg.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions configured for %s", ErrConfigIncomplete, titles.Label)
	}

	event := payload.Event
	itemID := event.PulseID.String()
	if itemID == "" {
		return nil, fmt.Errorf("%w: event has no item id", ErrInvalidWebhook)
	}

	log := s.logger.With(zap.String("form_type", string(formType)), zap.String("item_id", itemID))
	log.Info("webhook received", zap.String("board_id", event.BoardID.String()))

	boardA := cfg.BoardA.String()
	var item *models.Item
	if boardA == "" {
		log.Warn("board_a not configured, skipping item lookup")
	} else {
		item, err = s.client.FetchItem(ctx, itemID)
		if err != nil {
			log.Error("fetch item", zap.Error(err))
			item = nil
		} else if item.BoardID != "" && item.BoardID != boardA {
			log.Warn("item belongs to a different board than board_a",
				zap.String("item_board_id", item.BoardID),
				zap.String("board_a", boardA))
		}
	}

	headers := s.mapper.Headers(item)
	questions := s.mapper.Resolve(cfg.Questions, item, boardA)
	logMissingDestinations(log, questions)

	title := titles.Title
	if formType == models.FormTypeFornecedores && event.PulseName != "" {
		title = title + " - " + event.PulseName
	}

	form, err := s.Create(ctx, CreateFormInput{
		Type:        formType,
		Title:       title,
		Subtitle:    titles.Subtitle,
		Questions:   questions,
		HeaderData:  headers,
		WebhookData: json.RawMessage(raw),
	})
	if err != nil {
		return nil, err
	}
	formURL := strings.TrimRight(baseURL, "/") + "/form/" + form.ID
	log.Info("form created", zap.String("form_id", form.ID), zap.Int("questions", len(questions)))

	s.linkBack(ctx, log, cfg, event, formURL)

	if err := s.publisher.Publish(ctx, events.TopicFormCreated, events.FormCreated{
		Form:    form.Summary(),
		FormURL: formURL,
		ItemID:  itemID,
	}); err != nil {
		log.Warn("publish form created", zap.Error(err))
	}

	return &WebhookResult{
		FormID:  form.ID,
		FormURL: formURL,
		Message: "Form generated successfully for " + titles.Label,
	}, nil
}

// linkBack writes the form URL into the link column of the origin item. The
// board comes from the webhook, not from the configuration.
func (s *FormService) linkBack(ctx context.Context, log *zap.Logger, cfg models.FormConfig, event models.WebhookEvent, formURL string) {
	if cfg.BoardA == "" || cfg.LinkColumn == "" {
		return
	}
	itemID, boardID := event.PulseID.String(), event.BoardID.String()
	if itemID == "" || boardID == "" {
		log.Warn("webhook lacks pulseId or boardId, form link not written")
		return
	}
	if err := s.client.UpdateColumn(ctx, boardID, itemID, cfg.LinkColumn, formURL); err != nil {
		log.Error("write form link", zap.String("board_id", boardID), zap.String("column_id", cfg.LinkColumn), zap.Error(err))
		return
	}
	log.Info("form link written", zap.String("board_id", boardID), zap.String("column_id", cfg.LinkColumn))
}

func logMissingDestinations(log *zap.Logger, questions []models.Question) {
	for _, q := range questions {
		if q.IsDivider() || q.DestinationColumn != "" {
			continue
		}
		log.Warn("question has no destination column", zap.String("question_id", q.ID), zap.String("type", string(q.Type)))
	}
}
