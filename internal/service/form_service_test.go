package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/TWRT/monday-forms/internal/events"
	"github.com/TWRT/monday-forms/internal/models"
	"github.com/TWRT/monday-forms/internal/repository"
)

const webhookBody = `{"event":{"pulseId":42,"pulseName":"Viagem Lisboa","boardId":"100","type":"update_column_value"}}`

func guiasConfig() models.Config {
	return models.Config{
		models.FormTypeGuias: {
			BoardA:     "100",
			BoardB:     "200",
			LinkColumn: "link_col",
			Questions: []models.Question{
				{ID: "q1", Type: models.QuestionTypeMondayColumn, SourceColumn: "status", QuestionDestinationColumn: "text_status"},
				{ID: "d1", Type: models.QuestionTypeDivider, Title: "Hotel"},
				{ID: "q2", Type: models.QuestionTypeYesNo, Text: "Gostou?", DestinationColumn: "col_x"},
			},
		},
		models.FormTypeFornecedores: {
			Questions: []models.Question{{ID: "q1", Type: models.QuestionTypeRating, DestinationColumn: "col_r"}},
		},
	}
}

type serviceFixture struct {
	board     *fakeBoard
	repo      *repository.MemoryFormRepository
	publisher *events.Recorder
	svc       *FormService
}

func newServiceFixture(cfg models.Config) *serviceFixture {
	board := &fakeBoard{items: map[string]*models.Item{"42": sampleItem()}, createID: "999"}
	repo := repository.NewMemoryFormRepository()
	publisher := &events.Recorder{}
	svc := NewFormService(board, repo, nil, staticConfig(cfg), publisher, nil)
	svc.newID = func() string { return "form-1" }
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return &serviceFixture{board: board, repo: repo, publisher: publisher, svc: svc}
}

func TestGenerateFormChallenge(t *testing.T) {
	f := newServiceFixture(guiasConfig())

	res, err := f.svc.GenerateForm(context.Background(), models.FormTypeGuias, []byte(`{"challenge":"abc123"}`), "http://localhost")
	require.NoError(t, err)
	assert.JSONEq(t, `"abc123"`, string(res.Challenge))
	assert.Empty(t, res.FormID)

	summaries, err := f.repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.Empty(t, f.board.fetches)
}

func TestGenerateFormChallengeIgnoresEvent(t *testing.T) {
	f := newServiceFixture(guiasConfig())

	res, err := f.svc.GenerateForm(context.Background(), models.FormTypeGuias, []byte(`{"challenge":"abc","event":{"pulseId":{}}}`), "http://localhost")
	require.NoError(t, err)
	assert.JSONEq(t, `"abc"`, string(res.Challenge))
	assert.Empty(t, f.board.fetches)
	assert.Empty(t, f.publisher.Events())
}

func TestGenerateFormRejects(t *testing.T) {
	for _, tc := range []struct {
		name     string
		formType models.FormType
		body     string
		want     error
	}{
		{name: "InvalidJSON", formType: models.FormTypeGuias, body: `{"event":`, want: ErrInvalidWebhook},
		{name: "NoQuestions", formType: models.FormTypeClientes, body: webhookBody, want: ErrConfigIncomplete},
		{name: "NoItemID", formType: models.FormTypeGuias, body: `{"event":{"boardId":"100"}}`, want: ErrInvalidWebhook},
		{name: "UnknownType", formType: "outros", body: webhookBody, want: ErrConfigIncomplete},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newServiceFixture(guiasConfig())

			_, err := f.svc.GenerateForm(context.Background(), tc.formType, []byte(tc.body), "http://localhost")
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, f.board.fetches)
			assert.Empty(t, f.board.updates)
		})
	}
}

func TestGenerateForm(t *testing.T) {
	f := newServiceFixture(guiasConfig())

	res, err := f.svc.GenerateForm(context.Background(), models.FormTypeGuias, []byte(webhookBody), "https://forms.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "form-1", res.FormID)
	assert.Equal(t, "https://forms.example.com/form/form-1", res.FormURL)
	assert.Equal(t, "Form generated successfully for Guias", res.Message)

	assert.Equal(t, []string{"42"}, f.board.fetches, "item is fetched once for headers and questions")

	form, err := f.repo.Get(context.Background(), "form-1")
	require.NoError(t, err)
	assert.Equal(t, models.FormTypeGuias, form.Type)
	assert.Equal(t, "Formulário de Avaliação para Guias", form.Title)
	assert.Equal(t, "Avalie nossa viagem", form.Subtitle)
	assert.Equal(t, "Viagem Lisboa", form.HeaderData[models.HeaderTrip])
	assert.Equal(t, "Lisboa", form.HeaderData[models.HeaderDestination])
	require.Len(t, form.Questions, 3)
	assert.Equal(t, "Approved", form.Questions[0].ColumnValue)
	assert.Equal(t, "status", form.Questions[0].DestinationColumn)
	assert.JSONEq(t, webhookBody, string(form.WebhookData))
	assert.Equal(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), form.CreatedAt)

	require.Len(t, f.board.updates, 1)
	assert.Equal(t, updateCall{BoardID: "100", ItemID: "42", ColumnID: "link_col", Value: res.FormURL}, f.board.updates[0])

	recorded := f.publisher.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, events.TopicFormCreated, recorded[0].Topic)
	created := recorded[0].Event.(events.FormCreated)
	assert.Equal(t, "form-1", created.Form.ID)
	assert.Equal(t, "42", created.ItemID)
}

func TestGenerateFormWarnsOnBoardMismatch(t *testing.T) {
	for _, tc := range []struct {
		name     string
		boardID  string
		warnings int
	}{
		{name: "SameBoard", boardID: "100", warnings: 0},
		{name: "UnknownBoard", boardID: "", warnings: 0},
		{name: "OtherBoard", boardID: "555", warnings: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			f := newServiceFixture(guiasConfig())
			item := sampleItem()
			item.BoardID = tc.boardID
			f.board.items["42"] = item
			f.svc = NewFormService(f.board, f.repo, nil, staticConfig(guiasConfig()), f.publisher, zap.New(core))

			res, err := f.svc.GenerateForm(context.Background(), models.FormTypeGuias, []byte(webhookBody), "http://localhost")
			require.NoError(t, err)

			assert.Equal(t, tc.warnings, logs.FilterMessage("item belongs to a different board than board_a").Len())
			form, err := f.repo.Get(context.Background(), res.FormID)
			require.NoError(t, err)
			assert.Equal(t, "Approved", form.Questions[0].ColumnValue)
		})
	}
}

func TestGenerateFormWithoutBoardA(t *testing.T) {
	cfg := guiasConfig()
	guias := cfg[models.FormTypeGuias]
	guias.BoardA = ""
	cfg[models.FormTypeGuias] = guias
	f := newServiceFixture(cfg)

	res, err := f.svc.GenerateForm(context.Background(), models.FormTypeGuias, []byte(webhookBody), "http://localhost")
	require.NoError(t, err)

	assert.Empty(t, f.board.fetches)
	assert.Empty(t, f.board.updates, "no link-back without board_a")

	form, err := f.repo.Get(context.Background(), res.FormID)
	require.NoError(t, err)
	assert.Empty(t, form.HeaderData)
	assert.Equal(t, "", form.Questions[0].ColumnValue)
	assert.Equal(t, "status", form.Questions[0].DestinationColumn)
}

func TestGenerateFormSurvivesPlatformFailures(t *testing.T) {
	f := newServiceFixture(guiasConfig())
	f.board.fetchErr = errors.New("boom")
	f.board.updateErrs = map[string]error{"link_col": errors.New("nope")}

	res, err := f.svc.GenerateForm(context.Background(), models.FormTypeGuias, []byte(webhookBody), "http://localhost")
	require.NoError(t, err)

	form, err := f.repo.Get(context.Background(), res.FormID)
	require.NoError(t, err)
	assert.Empty(t, form.HeaderData)
	assert.Equal(t, "", form.Questions[0].ColumnValue)
	assert.Len(t, f.board.updates, 1)
}

func TestGenerateFormLinkBackNeedsBoardID(t *testing.T) {
	f := newServiceFixture(guiasConfig())

	_, err := f.svc.GenerateForm(context.Background(), models.FormTypeGuias, []byte(`{"event":{"pulseId":"42"}}`), "http://localhost")
	require.NoError(t, err)
	assert.Empty(t, f.board.updates)
}

func TestGenerateFormFornecedoresTitle(t *testing.T) {
	f := newServiceFixture(guiasConfig())

	res, err := f.svc.GenerateForm(context.Background(), models.FormTypeFornecedores, []byte(webhookBody), "http://localhost")
	require.NoError(t, err)
	assert.Equal(t, "Form generated successfully for Fornecedores", res.Message)

	form, err := f.repo.Get(context.Background(), res.FormID)
	require.NoError(t, err)
	assert.Equal(t, "Avaliação de Fornecedor - Viagem Lisboa", form.Title)
	assert.Equal(t, "Por favor, preencha este formulário para avaliar o fornecedor", form.Subtitle)
}

func TestFormLifecycle(t *testing.T) {
	f := newServiceFixture(guiasConfig())
	ctx := context.Background()

	form, err := f.svc.Create(ctx, CreateFormInput{Type: models.FormTypeClientes, Title: "t"})
	require.NoError(t, err)
	assert.NotNil(t, form.HeaderData)
	assert.NotNil(t, form.Questions)

	summaries, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, form.ID, summaries[0].ID)

	require.NoError(t, f.svc.Delete(ctx, form.ID))
	_, err = f.svc.Get(ctx, form.ID)
	assert.ErrorIs(t, err, repository.ErrFormNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, form.ID), repository.ErrFormNotFound)
}

func TestCreateGeneratesUniqueIDs(t *testing.T) {
	svc := NewFormService(&fakeBoard{}, repository.NewMemoryFormRepository(), nil, staticConfig{}, nil, nil)

	a, err := svc.Create(context.Background(), CreateFormInput{Type: models.FormTypeGuias})
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), CreateFormInput{Type: models.FormTypeGuias})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.ID, 36)
}
