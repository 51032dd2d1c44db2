package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/RichardoC/careerbot/internal/models"
)

// RemoteStore stores records as documents of a DocumentStore. The document
// id becomes the record id.
type RemoteStore struct {
	docs DocumentStore
}

func NewRemoteStore(docs DocumentStore) *RemoteStore {
	return &RemoteStore{docs: docs}
}

func (s *RemoteStore) Save(ctx context.Context, scope string, rec models.ChatRecord) (models.ChatRecord, error) {
	id, err := s.docs.Create(ctx, scope, rec)
	if err != nil {
		return models.ChatRecord{}, fmt.Errorf("failed to create chat document: %w", err)
	}
	if id == "" {
		return models.ChatRecord{}, fmt.Errorf("document store returned an empty id")
	}
	rec.ID = id
	return rec, nil
}

func (s *RemoteStore) List(ctx context.Context, scope string) ([]models.ChatRecord, error) {
	records, err := s.docs.Documents(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat documents: %w", err)
	}
	if records == nil {
		return []models.ChatRecord{}, nil
	}
	// Document streams are unordered.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp < records[j].Timestamp
	})
	return records, nil
}

func (s *RemoteStore) Close() error {
	return s.docs.Close()
}
