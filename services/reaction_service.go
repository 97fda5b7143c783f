//go:generate go run go.uber.org/mock/mockgen -source=reaction_service.go -destination=../mocks/mock_reaction_service.go -package=mocks
package services

import (
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/repositories"
	"fmt"
	"log/slog"
	"time"
)

// IReactionAggregator is the read-side slice consumed by the message list.
type IReactionAggregator interface {
	Aggregate(messageID, viewerID string) ([]domain.ReactionCount, error)
}

type IReactionService interface {
	IReactionAggregator
	Toggle(identity domain.Identity, messageID, emoji string) (ToggleResult, error)
}

type ReactionService struct {
	reactions repositories.IReactionRepository
	messages  repositories.IMessageRepository
	gate      IMembershipGate
	resolver  ICurrentUserResolver
	log       *slog.Logger
	now       func() time.Time
}

func NewReactionService(
	reactions repositories.IReactionRepository,
	messages repositories.IMessageRepository,
	gate IMembershipGate,
	resolver ICurrentUserResolver,
	log *slog.Logger,
) *ReactionService {
	return &ReactionService{
		reactions: reactions,
		messages:  messages,
		gate:      gate,
		resolver:  resolver,
		log:       log,
		now:       time.Now,
	}
}

// Toggle flips the caller's reaction on a message. Emoji outside the fixed
// set are rejected before any lookup; membership is checked on the message's
// owning conversation.
func (s *ReactionService) Toggle(identity domain.Identity, messageID, emoji string) (ToggleResult, error) {
	if identity.Anonymous() {
		return ToggleResult{}, errors.ErrUnauthorized
	}
	if !domain.AllowedReaction(emoji) {
		return ToggleResult{}, fmt.Errorf("%w: unsupported reaction %q", errors.ErrValidation, emoji)
	}

	current, err := s.resolver.ResolveCurrentUser(identity)
	if err != nil {
		return ToggleResult{}, err
	}
	message, err := s.messages.GetByID(messageID)
	if err != nil {
		return ToggleResult{}, err
	}
	if _, err := s.gate.RequireMembership(message.ConversationID, current.ID); err != nil {
		return ToggleResult{}, err
	}

	removed, err := s.reactions.Toggle(messageID, current.ID, emoji, s.now())
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{Removed: removed}, nil
}

// Aggregate reports, for every allowed emoji in its fixed order, the stored
// count and whether the viewer holds one. Zero-count emoji stay in the result
// so the shape is constant.
func (s *ReactionService) Aggregate(messageID, viewerID string) ([]domain.ReactionCount, error) {
	reactions, err := s.reactions.ListByMessage(messageID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]*domain.ReactionCount, len(domain.AllowedReactions))
	for _, reaction := range reactions {
		count, ok := counts[reaction.Emoji]
		if !ok {
			count = &domain.ReactionCount{Emoji: reaction.Emoji}
			counts[reaction.Emoji] = count
		}
		count.Count++
		if reaction.UserID == viewerID {
			count.ReactedByMe = true
		}
	}

	aggregate := make([]domain.ReactionCount, 0, len(domain.AllowedReactions))
	for _, emoji := range domain.AllowedReactions {
		if count, ok := counts[emoji]; ok {
			aggregate = append(aggregate, *count)
			continue
		}
		aggregate = append(aggregate, domain.ReactionCount{Emoji: emoji})
	}
	return aggregate, nil
}
