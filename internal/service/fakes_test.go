package service

import (
	"context"
	"sync"

	"github.com/TWRT/monday-forms/internal/client"
	"github.com/TWRT/monday-forms/internal/models"
)

type staticConfig models.Config

func (c staticConfig) Load() models.Config { return models.Config(c) }

type createCall struct {
	BoardID string
	Name    string
}

type updateCall struct {
	BoardID  string
	ItemID   string
	ColumnID string
	Value    string
}

// fakeBoard is an in-memory BoardClient that records every call.
type fakeBoard struct {
	mu sync.Mutex

	items      map[string]*models.Item
	fetchErr   error
	createID   string
	createErr  error
	updateErrs map[string]error

	fetches []string
	created []createCall
	updates []updateCall
}

var _ client.BoardClient = (*fakeBoard)(nil)

func (f *fakeBoard) FetchColumns(context.Context, string) ([]models.Column, error) {
	return nil, nil
}

func (f *fakeBoard) FetchItem(_ context.Context, itemID string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, itemID)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	item, ok := f.items[itemID]
	if !ok {
		return nil, client.ErrItemNotFound
	}
	return item, nil
}

func (f *fakeBoard) UpdateColumn(_ context.Context, boardID, itemID, columnID, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{BoardID: boardID, ItemID: itemID, ColumnID: columnID, Value: value})
	return f.updateErrs[columnID]
}

func (f *fakeBoard) CreateRecord(_ context.Context, boardID, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, createCall{BoardID: boardID, Name: name})
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createID, nil
}
