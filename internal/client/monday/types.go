package monday

import (
	"encoding/json"

	"github.com/TWRT/monday-forms/internal/models"
)

const (
	boardColumnsQuery = `
query GetBoardColumns($boardId: ID!) {
	boards(ids: [$boardId]) {
		columns {
			id
			title
			type
		}
	}
}`

	itemQuery = `
query GetItem($itemId: ID!) {
	items(ids: [$itemId]) {
		id
		name
		board {
			id
		}
		column_values {
			id
			text
			value
			type
			... on MirrorValue {
				display_value
			}
		}
	}
}`

	changeColumnValueMutation = `
mutation UpdateItemColumn($boardId: ID!, $itemId: ID!, $columnId: String!, $value: JSON!) {
	change_column_value(board_id: $boardId, item_id: $itemId, column_id: $columnId, value: $value) {
		id
	}
}`

	changeSimpleColumnValueMutation = `
mutation UpdateItemColumn($boardId: ID!, $itemId: ID!, $columnId: String!, $value: String!) {
	change_simple_column_value(board_id: $boardId, item_id: $itemId, column_id: $columnId, value: $value) {
		id
	}
}`

	createItemMutation = `
mutation CreateItem($boardId: ID!, $itemName: String!) {
	create_item(board_id: $boardId, item_name: $itemName) {
		id
		name
	}
}`
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data         json.RawMessage `json:"data"`
	Errors       []graphQLError  `json:"errors"`
	ErrorMessage string          `json:"error_message"`
	ErrorCode    string          `json:"error_code"`
}

func (r graphQLResponse) errorMessages() []string {
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	if r.ErrorMessage != "" {
		msg := r.ErrorMessage
		if r.ErrorCode != "" {
			msg = r.ErrorCode + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

type boardColumnsData struct {
	Boards []struct {
		Columns []models.Column `json:"columns"`
	} `json:"boards"`
}

type mondayBoardRef struct {
	ID string `json:"id"`
}

type mondayItem struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Board        *mondayBoardRef      `json:"board"`
	ColumnValues []models.ColumnValue `json:"column_values"`
}

type itemsData struct {
	Items []mondayItem `json:"items"`
}

type createItemData struct {
	CreateItem struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"create_item"`
}
