package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/RichardoC/careerbot/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FirestoreDocuments is a DocumentStore backed by Cloud Firestore.
type FirestoreDocuments struct {
	client *firestore.Client
}

// NewFirestoreDocuments connects with a service account file. An empty
// projectID is read from the credentials.
func NewFirestoreDocuments(ctx context.Context, credentialsPath, projectID string) (*FirestoreDocuments, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &FirestoreDocuments{client: client}, nil
}

func (f *FirestoreDocuments) messages(scope string) (*firestore.CollectionRef, error) {
	if scope == "" || strings.Contains(scope, "/") {
		return nil, fmt.Errorf("invalid firestore scope %q", scope)
	}
	return f.client.Collection(chatsCollection).Doc(scope).Collection(messagesCollection), nil
}

func (f *FirestoreDocuments) Create(ctx context.Context, scope string, rec models.ChatRecord) (string, error) {
	coll, err := f.messages(scope)
	if err != nil {
		return "", err
	}
	ref := coll.NewDoc()
	if _, err := ref.Set(ctx, rec); err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (f *FirestoreDocuments) Documents(ctx context.Context, scope string) ([]models.ChatRecord, error) {
	coll, err := f.messages(scope)
	if err != nil {
		// Create never accepts such a scope, so it has no documents.
		return []models.ChatRecord{}, nil
	}
	iter := coll.Documents(ctx)
	defer iter.Stop()

	var records []models.ChatRecord
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var rec models.ChatRecord
		if err := snap.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", snap.Ref.ID, err)
		}
		rec.ID = snap.Ref.ID
		records = append(records, rec)
	}
	return records, nil
}

func (f *FirestoreDocuments) Close() error {
	return f.client.Close()
}
