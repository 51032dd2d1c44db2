// Package chat records chat exchanges per user and serves their history.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/RichardoC/careerbot/internal/db"
	"github.com/RichardoC/careerbot/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/RichardoC/careerbot/internal/chat"

type Repository struct {
	store  db.Store
	now    func() time.Time
	tracer trace.Tracer
}

func NewRepository(store db.Store) *Repository {
	return &Repository{
		store:  store,
		now:    time.Now,
		tracer: otel.Tracer(tracerName),
	}
}

// SaveChat stores one exchange stamped with the current time. The store
// assigns the id; failures are returned as-is, without retries.
func (r *Repository) SaveChat(ctx context.Context, userID, message, reply string) (models.ChatRecord, error) {
	ctx, span := r.tracer.Start(ctx, "chat.save", trace.WithAttributes(attribute.String("user_id", userID)))
	defer span.End()

	rec := models.ChatRecord{
		Message:   message,
		Reply:     reply,
		Timestamp: r.now().Unix(),
	}
	saved, err := r.store.Save(ctx, userID, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		return models.ChatRecord{}, fmt.Errorf("failed to save chat for %s: %w", userID, err)
	}
	return saved, nil
}

// GetHistory returns the user's chats oldest first. A user without chats
// gets an empty slice.
func (r *Repository) GetHistory(ctx context.Context, userID string) ([]models.ChatRecord, error) {
	ctx, span := r.tracer.Start(ctx, "chat.history", trace.WithAttributes(attribute.String("user_id", userID)))
	defer span.End()

	history, err := r.store.List(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, fmt.Errorf("failed to get history for %s: %w", userID, err)
	}
	if history == nil {
		history = []models.ChatRecord{}
	}
	span.SetAttributes(attribute.Int("count", len(history)))
	return history, nil
}
