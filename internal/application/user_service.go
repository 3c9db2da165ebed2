package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/internal/domain/repository"
	"github.com/oksasatya/go-ddd-identity/pkg/pagination"
)

// Deactivate moves a user to Deactivated. The UserDeactivated event it
// raises drives cache eviction, the directory index and the notification
// email.
func (s *Service) Deactivate(ctx context.Context, userID uuid.UUID, reason string) error {
	const op = "deactivate"
	repo := s.users.Open()
	u, err := s.load(ctx, repo, op, userID)
	if err != nil {
		return err
	}
	if err := u.Deactivate(reason); err != nil {
		return err
	}
	repo.Update(u)
	if err := s.commit(ctx, repo, op); err != nil {
		return err
	}
	s.logger.WithField("user_id", userID.String()).Info("user deactivated")
	return nil
}

// GetProfile returns the profile of an active user, served from the cache
// when possible. Cache failures fall through to the store.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*repository.UserProfile, error) {
	const op = "get_profile"
	if s.cache != nil {
		p, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", userID.String()).Warn("profile cache read failed")
		}
		if ok {
			return p, nil
		}
	}
	if s.profiles == nil {
		return nil, userNotFound(op)
	}
	p, err := s.profiles.ActiveProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, userNotFound(op)
	}
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, p); err != nil {
			s.logger.WithError(err).WithField("user_id", userID.String()).Warn("profile cache write failed")
		}
	}
	return p, nil
}

// ListUsers pages through every user, newest first.
func (s *Service) ListUsers(ctx context.Context, pageNumber, pageSize int) (pagination.PagedResult[repository.UserProfile], error) {
	page := pagination.NewPage(pageNumber, pageSize)
	if s.profiles == nil {
		return pagination.NewPagedResult[repository.UserProfile](nil, 0, page), nil
	}
	return s.profiles.ListProfiles(ctx, page)
}

// SearchUsers looks users up by email or name in the directory index.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]repository.UserProfile, error) {
	if s.search == nil || strings.TrimSpace(q) == "" {
		return []repository.UserProfile{}, nil
	}
	return s.search.Search(ctx, q, size)
}
