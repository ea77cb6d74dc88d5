package models

// Column is a column definition on a board.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

const ColumnTypeLongText = "long_text"

// ColumnValue is a column reading on an item. DisplayValue is only populated
// for mirror columns.
type ColumnValue struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	Value        string `json:"value"`
	Type         string `json:"type"`
	DisplayValue string `json:"display_value,omitempty"`
}

type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	BoardID      string        `json:"board_id,omitempty"`
	ColumnValues []ColumnValue `json:"column_values"`
}

// Column returns the reading for columnID by linear scan.
func (i *Item) Column(columnID string) (ColumnValue, bool) {
	if i == nil {
		return ColumnValue{}, false
	}
	for _, cv := range i.ColumnValues {
		if cv.ID == columnID {
			return cv, true
		}
	}
	return ColumnValue{}, false
}
