package eventbus

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/internal/infrastructure/search"
)

// DirectoryIndex is the write side of the user search index.
type DirectoryIndex interface {
	Index(ctx context.Context, doc search.UserDocument) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

// SearchIndexer mirrors registrations and deactivations into the directory.
type SearchIndexer struct {
	index DirectoryIndex
}

func NewSearchIndexer(index DirectoryIndex) *SearchIndexer {
	return &SearchIndexer{index: index}
}

func (h *SearchIndexer) Handle(ctx context.Context, ev shared.DomainEvent) error {
	switch e := ev.(type) {
	case entity.UserRegistered:
		return h.index.Index(ctx, search.UserDocument{
			ID:        e.UserID.String(),
			Email:     e.Email,
			FullName:  e.FullName,
			Role:      string(e.Role),
			Status:    entity.StatusActive.String(),
			CreatedAt: e.OccurredOn(),
		})
	case entity.UserDeactivated:
		return h.index.SetStatus(ctx, e.UserID, entity.StatusDeactivated.String())
	}
	return nil
}
