//go:generate go run go.uber.org/mock/mockgen -source=membership_service.go -destination=../mocks/mock_membership_service.go -package=mocks
package services

import (
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/repositories"
	"fmt"
	"log/slog"
	"time"
)

// IMembershipGate is the single authorization gate. Every message, reaction,
// typing and read-marking path goes through it; no component re-derives the
// membership check on its own.
type IMembershipGate interface {
	RequireMembership(conversationID, userID string) (domain.Membership, error)
}

type IMembershipService interface {
	IMembershipGate
	MarkRead(identity domain.Identity, conversationID string) (ReadReceipt, error)
}

type MembershipService struct {
	memberships repositories.IMembershipRepository
	resolver    ICurrentUserResolver
	log         *slog.Logger
	now         func() time.Time
}

func NewMembershipService(memberships repositories.IMembershipRepository, resolver ICurrentUserResolver, log *slog.Logger) *MembershipService {
	return &MembershipService{memberships: memberships, resolver: resolver, log: log, now: time.Now}
}

// RequireMembership returns the caller's membership row or ErrForbidden.
// Absence maps to Forbidden, not NotFound: non-members must not learn whether
// a guessed conversation id exists.
func (s *MembershipService) RequireMembership(conversationID, userID string) (domain.Membership, error) {
	membership, err := s.memberships.Get(conversationID, userID)
	if errors.Is(err, errors.ErrNotFound) {
		return domain.Membership{}, fmt.Errorf("%w: not a member of conversation %s", errors.ErrForbidden, conversationID)
	}
	return membership, err
}

// MarkRead advances the caller's read cursor to now. It is invoked
// opportunistically by the read path, so a caller without identity, profile
// or membership gets a silent no-op receipt instead of an error.
func (s *MembershipService) MarkRead(identity domain.Identity, conversationID string) (ReadReceipt, error) {
	receipt := ReadReceipt{ConversationID: conversationID}

	current, err := s.resolver.ResolveCurrentUser(identity)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrUnauthorized), errors.Is(err, errors.ErrProfileMissing):
		return receipt, nil
	default:
		return receipt, err
	}

	now := s.now()
	_, err = s.memberships.SetLastReadAt(conversationID, current.ID, now)
	switch {
	case err == nil:
		receipt.LastReadAt = &now
		return receipt, nil
	case errors.Is(err, errors.ErrNotFound):
		return receipt, nil
	default:
		return receipt, err
	}
}
