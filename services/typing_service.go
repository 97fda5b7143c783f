//go:generate go run go.uber.org/mock/mockgen -source=typing_service.go -destination=../mocks/mock_typing_service.go -package=mocks
package services

import (
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/repositories"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

type ITypingService interface {
	SetTyping(identity domain.Identity, conversationID string, isTyping bool) (*string, error)
	ListActive(identity domain.Identity, conversationID string) ([]TypingUser, error)
}

type TypingService struct {
	typing   repositories.ITypingRepository
	users    repositories.IUserRepository
	gate     IMembershipGate
	resolver ICurrentUserResolver
	log      *slog.Logger
	now      func() time.Time
}

func NewTypingService(
	typing repositories.ITypingRepository,
	users repositories.IUserRepository,
	gate IMembershipGate,
	resolver ICurrentUserResolver,
	log *slog.Logger,
) *TypingService {
	return &TypingService{typing: typing, users: users, gate: gate, resolver: resolver, log: log, now: time.Now}
}

// SetTyping upserts the caller's typing row. Typing pushes the expiry TTL
// into the future; stopping moves it to now, which makes the row stale
// without deleting it. Callers without identity or profile get a silent nil.
func (s *TypingService) SetTyping(identity domain.Identity, conversationID string, isTyping bool) (*string, error) {
	current, err := s.resolver.ResolveCurrentUser(identity)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrUnauthorized), errors.Is(err, errors.ErrProfileMissing):
		return nil, nil
	default:
		return nil, err
	}
	if _, err := s.gate.RequireMembership(conversationID, current.ID); err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now
	if isTyping {
		expiresAt = now.Add(domain.TypingTTL)
	}
	event, err := s.typing.Upsert(conversationID, current.ID, expiresAt, now)
	if err != nil {
		return nil, err
	}
	return &event.ID, nil
}

// ListActive returns the other members currently typing. Expiry is lazy:
// liveness is decided solely by this read-time filter against a fresh now,
// never by row deletion.
func (s *TypingService) ListActive(identity domain.Identity, conversationID string) ([]TypingUser, error) {
	current, err := s.resolver.ResolveCurrentUser(identity)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrUnauthorized), errors.Is(err, errors.ErrProfileMissing):
		return nil, nil
	default:
		return nil, err
	}
	if _, err := s.gate.RequireMembership(conversationID, current.ID); err != nil {
		if errors.Is(err, errors.ErrForbidden) {
			return nil, nil
		}
		return nil, err
	}

	events, err := s.typing.ListByConversation(conversationID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	active := lo.Filter(events, func(event domain.TypingEvent, _ int) bool {
		return event.UserID != current.ID && !event.Expired(now)
	})
	if len(active) == 0 {
		return nil, nil
	}

	typists, err := s.users.GetMany(lo.Map(active, func(event domain.TypingEvent, _ int) string {
		return event.UserID
	}))
	if err != nil {
		return nil, err
	}

	typingUsers := make([]TypingUser, 0, len(active))
	for _, event := range active {
		typist, ok := typists[event.UserID]
		if !ok {
			continue
		}
		typingUsers = append(typingUsers, TypingUser{
			UserID:    typist.ID,
			Name:      typist.Name,
			ExpiresAt: event.ExpiresAt,
		})
	}
	return typingUsers, nil
}
