package service

import (
	"go.uber.org/zap"

	"github.com/TWRT/monday-forms/internal/models"
)

// HeaderColumns maps lookup columns on the origin board to header labels.
var HeaderColumns = map[string]string{
	"lookup_mkrjh91x": models.HeaderDestination,
	"lookup_mkrjpdz0": models.HeaderDate,
	"lookup_mkrb9ns5": models.HeaderClient,
}

// HeaderDestinationColumns maps header labels to the text columns they are
// written to on the destination board, in write order.
var HeaderDestinationColumns = []struct {
	Header string
	Column string
}{
	{models.HeaderDestination, "text_mkrb17ct"},
	{models.HeaderDate, "text_mksq2j87"},
	{models.HeaderClient, "text_mkrjdnry"},
}

// QuestionMapper fills remote-sourced questions from an already fetched item.
type QuestionMapper struct {
	logger *zap.Logger
}

func NewQuestionMapper(logger *zap.Logger) *QuestionMapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionMapper{logger: logger.Named("mapper")}
}

// Resolve returns a copy of questions where every monday_column question has
// a ColumnValue (possibly empty) and a DestinationColumn. item may be nil when
// the fetch failed; the configured questions are never modified.
func (m *QuestionMapper) Resolve(questions []models.Question, item *models.Item, boardA string) []models.Question {
	resolved := make([]models.Question, len(questions))
	for i, q := range questions {
		if q.Conditional != nil {
			cond := *q.Conditional
			q.Conditional = &cond
		}
		if q.IsRemoteSourced() {
			if q.DestinationColumn == "" && q.SourceColumn != "" {
				q.DestinationColumn = q.SourceColumn
			}
			q.ColumnValue = m.columnValue(q, item, boardA)
		}
		resolved[i] = q
	}
	return resolved
}

func (m *QuestionMapper) columnValue(q models.Question, item *models.Item, boardA string) string {
	fields := []zap.Field{zap.String("question_id", q.ID), zap.String("source_column", q.SourceColumn)}
	switch {
	case q.SourceColumn == "":
		m.logger.Warn("question has no source column", fields...)
		return ""
	case boardA == "":
		m.logger.Warn("board_a not configured, column value left empty", fields...)
		return ""
	case item == nil:
		m.logger.Warn("item not available, column value left empty", fields...)
		return ""
	}

	cv, ok := item.Column(q.SourceColumn)
	if !ok {
		m.logger.Warn("source column not found on item", append(fields, zap.String("item_id", item.ID))...)
		return ""
	}
	value := Normalize(cv)
	m.logger.Debug("column value resolved", append(fields, zap.String("value", value))...)
	return value
}

// Headers lifts the item name and the known lookup columns into the header
// map. Lookup columns that normalize to "" are omitted.
func (m *QuestionMapper) Headers(item *models.Item) map[string]string {
	headers := map[string]string{}
	if item == nil {
		return headers
	}
	headers[models.HeaderTrip] = item.Name
	for _, cv := range item.ColumnValues {
		label, ok := HeaderColumns[cv.ID]
		if !ok {
			continue
		}
		if value := Normalize(cv); value != "" {
			headers[label] = value
		}
	}
	return headers
}
