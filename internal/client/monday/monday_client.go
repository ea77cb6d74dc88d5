package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TWRT/monday-forms/internal/client"
	"github.com/TWRT/monday-forms/internal/models"
)

const (
	DefaultAPIURL  = "https://api.monday.com/v2"
	DefaultTimeout = 30 * time.Second
)

// APIError is the single failure type returned by MondayClient. It covers
// transport errors, non-2xx responses and GraphQL-level errors.
type APIError struct {
	Op         string
	StatusCode int
	Messages   []string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" (monday)")
	if e.StatusCode != 0 && (e.StatusCode < 200 || e.StatusCode > 299) {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type MondayClient struct {
	apiUrl     string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ client.BoardClient = (*MondayClient)(nil)

func NewMondayClient(apiUrl, token string, timeout time.Duration, logger *zap.Logger) *MondayClient {
	if apiUrl == "" {
		apiUrl = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MondayClient{
		apiUrl:     apiUrl,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("monday"),
	}
}

// execute posts one GraphQL document and decodes its data into out.
func (c *MondayClient) execute(ctx context.Context, op, query string, variables map[string]any, out any) error {
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return &APIError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiUrl, bytes.NewReader(body))
	if err != nil {
		return &APIError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}

	var gqlResp graphQLResponse
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: op, StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, &gqlResp); err == nil {
			apiErr.Messages = gqlResp.errorMessages()
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("parse response: %w", err)}
	}
	if msgs := gqlResp.errorMessages(); len(msgs) > 0 {
		c.logger.Error("graphql errors", zap.String("op", op), zap.Strings("errors", msgs))
		return &APIError{Op: op, StatusCode: resp.StatusCode, Messages: msgs}
	}

	if out != nil && len(gqlResp.Data) > 0 {
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return &APIError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("parse data: %w", err)}
		}
	}
	return nil
}

func (c *MondayClient) FetchColumns(ctx context.Context, boardID string) ([]models.Column, error) {
	var data boardColumnsData
	err := c.execute(ctx, "get board columns", boardColumnsQuery, map[string]any{"boardId": boardID}, &data)
	if err != nil {
		return nil, err
	}
	if len(data.Boards) == 0 {
		return []models.Column{}, nil
	}
	return data.Boards[0].Columns, nil
}

func (c *MondayClient) FetchItem(ctx context.Context, itemID string) (*models.Item, error) {
	var data itemsData
	if err := c.execute(ctx, "get item", itemQuery, map[string]any{"itemId": itemID}, &data); err != nil {
		return nil, err
	}
	if len(data.Items) == 0 {
		return nil, fmt.Errorf("get item %s (monday): %w", itemID, client.ErrItemNotFound)
	}

	raw := data.Items[0]
	item := &models.Item{
		ID:           raw.ID,
		Name:         raw.Name,
		ColumnValues: raw.ColumnValues,
	}
	if raw.Board != nil {
		item.BoardID = raw.Board.ID
	}
	return item, nil
}

// UpdateColumn writes value into one column. long_text columns only accept
// the simple mutation; every other type gets a JSON-encoded string.
func (c *MondayClient) UpdateColumn(ctx context.Context, boardID, itemID, columnID, value string) error {
	columnType, err := c.columnType(ctx, boardID, columnID)
	if err != nil {
		c.logger.Warn("column type lookup failed, falling back to change_column_value",
			zap.String("board_id", boardID),
			zap.String("column_id", columnID),
			zap.Error(err))
		columnType = ""
	}

	variables := map[string]any{
		"boardId":  boardID,
		"itemId":   itemID,
		"columnId": columnID,
	}
	query := changeColumnValueMutation
	if columnType == models.ColumnTypeLongText {
		query = changeSimpleColumnValueMutation
		variables["value"] = value
	} else {
		encoded, err := json.Marshal(value)
		if err != nil {
			return &APIError{Op: "update column", Err: fmt.Errorf("encode value: %w", err)}
		}
		variables["value"] = string(encoded)
	}

	if err := c.execute(ctx, "update column", query, variables, nil); err != nil {
		return err
	}
	c.logger.Info("column updated",
		zap.String("board_id", boardID),
		zap.String("item_id", itemID),
		zap.String("column_id", columnID),
		zap.String("column_type", columnType))
	return nil
}

func (c *MondayClient) columnType(ctx context.Context, boardID, columnID string) (string, error) {
	columns, err := c.FetchColumns(ctx, boardID)
	if err != nil {
		return "", err
	}
	for _, col := range columns {
		if col.ID == columnID {
			return col.Type, nil
		}
	}
	return "", nil
}

func (c *MondayClient) CreateRecord(ctx context.Context, boardID, name string) (string, error) {
	var data createItemData
	variables := map[string]any{
		"boardId":  boardID,
		"itemName": name,
	}
	if err := c.execute(ctx, "create item", createItemMutation, variables, &data); err != nil {
		return "", err
	}
	if data.CreateItem.ID == "" {
		return "", &APIError{Op: "create item", Messages: []string{"response carried no item id"}}
	}
	c.logger.Info("item created",
		zap.String("board_id", boardID),
		zap.String("item_id", data.CreateItem.ID),
		zap.String("name", name))
	return data.CreateItem.ID, nil
}
