package client

import (
	"context"
	"errors"

	"github.com/TWRT/monday-forms/internal/models"
)

var ErrItemNotFound = errors.New("item not found")

type ColumnProvider interface {
	FetchColumns(ctx context.Context, boardID string) ([]models.Column, error)
}

type ItemProvider interface {
	FetchItem(ctx context.Context, itemID string) (*models.Item, error)
}

type ColumnWriter interface {
	UpdateColumn(ctx context.Context, boardID, itemID, columnID, value string) error
}

type RecordCreator interface {
	CreateRecord(ctx context.Context, boardID, name string) (string, error)
}

type BoardClient interface {
	ColumnProvider
	ItemProvider
	ColumnWriter
	RecordCreator
}
