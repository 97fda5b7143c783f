//go:generate go run go.uber.org/mock/mockgen -source=identity_service.go -destination=../mocks/mock_identity_service.go -package=mocks
package services

import (
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/repositories"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SearchLimit caps user-search results.
const SearchLimit = 50

// ICurrentUserResolver is the slice of the identity service the other
// services consume to map a caller identity onto a stored profile.
type ICurrentUserResolver interface {
	ResolveCurrentUser(identity domain.Identity) (domain.User, error)
}

type IIdentityService interface {
	ICurrentUserResolver
	UpsertUser(identity domain.Identity, externalID, name, imageURL, email string) (string, error)
	GetCurrentUserProfile(identity domain.Identity) (*domain.User, error)
	SearchUsers(identity domain.Identity, query string) ([]domain.User, error)
	TouchPresence(identity domain.Identity) (*time.Time, error)
}

type IdentityService struct {
	users repositories.IUserRepository
	log   *slog.Logger
	now   func() time.Time
}

func NewIdentityService(users repositories.IUserRepository, log *slog.Logger) *IdentityService {
	return &IdentityService{users: users, log: log, now: time.Now}
}

// ResolveCurrentUser maps the caller identity to its linked profile.
func (s *IdentityService) ResolveCurrentUser(identity domain.Identity) (domain.User, error) {
	if identity.Anonymous() {
		return domain.User{}, errors.ErrUnauthorized
	}
	user, err := s.users.GetByExternalID(identity.Subject)
	if errors.Is(err, errors.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: no profile linked to %s", errors.ErrProfileMissing, identity.Subject)
	}
	return user, err
}

// UpsertUser is the idempotent profile sync: create on first call, patch
// afterwards. The external id must be the caller's own.
func (s *IdentityService) UpsertUser(identity domain.Identity, externalID, name, imageURL, email string) (string, error) {
	if identity.Anonymous() {
		return "", errors.ErrUnauthorized
	}
	if externalID != identity.Subject {
		return "", fmt.Errorf("%w: cannot sync another user's profile", errors.ErrForbidden)
	}

	now := s.now()
	user, err := s.users.GetByExternalID(externalID)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrNotFound):
		user = domain.User{
			ID:         uuid.NewString(),
			ExternalID: externalID,
			CreatedAt:  now,
		}
	default:
		return "", err
	}

	user.Name = displayName(name)
	user.ImageURL = imageURL
	user.Email = email
	user.UpdatedAt = now
	user.LastSeenAt = now
	if err := s.users.Upsert(user); err != nil {
		return "", err
	}
	s.log.Debug("User profile synced", "user", user.ID)
	return user.ID, nil
}

// GetCurrentUserProfile degrades to nil rather than erroring: reads must not
// hard-fail on a missing identity or unlinked profile.
func (s *IdentityService) GetCurrentUserProfile(identity domain.Identity) (*domain.User, error) {
	user, err := s.ResolveCurrentUser(identity)
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, errors.ErrUnauthorized), errors.Is(err, errors.ErrProfileMissing):
		return nil, nil
	default:
		return nil, err
	}
}

// SearchUsers matches a case-insensitive substring of the display name,
// excluding the caller, capped at SearchLimit. Unauthenticated callers get an
// empty result.
func (s *IdentityService) SearchUsers(identity domain.Identity, query string) ([]domain.User, error) {
	current, err := s.ResolveCurrentUser(identity)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrUnauthorized), errors.Is(err, errors.ErrProfileMissing):
		return nil, nil
	default:
		return nil, err
	}
	return s.users.Search(query, current.ID, SearchLimit)
}

// TouchPresence is the presence heartbeat: it refreshes LastSeenAt, creating
// the profile from identity claims on first contact. Never errors on a
// missing identity; the heartbeat is fired blindly by clients.
func (s *IdentityService) TouchPresence(identity domain.Identity) (*time.Time, error) {
	if identity.Anonymous() {
		return nil, nil
	}

	now := s.now()
	user, err := s.users.GetByExternalID(identity.Subject)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrNotFound):
		user = domain.User{
			ID:         uuid.NewString(),
			ExternalID: identity.Subject,
			Name:       displayName(identity.Name),
			ImageURL:   identity.ImageURL,
			Email:      identity.Email,
			CreatedAt:  now,
		}
	default:
		return nil, err
	}

	user.LastSeenAt = now
	user.UpdatedAt = now
	if err := s.users.Upsert(user); err != nil {
		return nil, err
	}
	return &now, nil
}

func displayName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return domain.DefaultUserName
	}
	return trimmed
}
