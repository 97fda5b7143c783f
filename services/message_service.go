//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
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
	"github.com/samber/lo"
	"github.com/samber/lo/parallel"
)

type IMessageService interface {
	Send(identity domain.Identity, conversationID, body string) (string, error)
	SoftDelete(identity domain.Identity, messageID string) (string, error)
	List(identity domain.Identity, conversationID string) ([]MessageView, error)
}

type MessageService struct {
	messages   repositories.IMessageRepository
	users      repositories.IUserRepository
	aggregator IReactionAggregator
	gate       IMembershipGate
	resolver   ICurrentUserResolver
	log        *slog.Logger
	now        func() time.Time
}

func NewMessageService(
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	aggregator IReactionAggregator,
	gate IMembershipGate,
	resolver ICurrentUserResolver,
	log *slog.Logger,
) *MessageService {
	return &MessageService{
		messages:   messages,
		users:      users,
		aggregator: aggregator,
		gate:       gate,
		resolver:   resolver,
		log:        log,
		now:        time.Now,
	}
}

// Send appends a message to a conversation the caller is a member of. The
// append and the conversation bump land in one transaction, so a rejected
// guard never leaves partial state.
func (s *MessageService) Send(identity domain.Identity, conversationID, body string) (string, error) {
	current, err := s.resolver.ResolveCurrentUser(identity)
	if err != nil {
		return "", err
	}
	if _, err := s.gate.RequireMembership(conversationID, current.ID); err != nil {
		return "", err
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", fmt.Errorf("%w: message body is required", errors.ErrValidation)
	}

	message := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       current.ID,
		Body:           trimmed,
		CreatedAt:      s.now(),
	}
	if err := s.messages.Append(message); err != nil {
		return "", err
	}
	return message.ID, nil
}

// SoftDelete tombstones the caller's own message. Deleting an already deleted
// message is a no-op returning the same id.
func (s *MessageService) SoftDelete(identity domain.Identity, messageID string) (string, error) {
	current, err := s.resolver.ResolveCurrentUser(identity)
	if err != nil {
		return "", err
	}
	message, err := s.messages.GetByID(messageID)
	if err != nil {
		return "", err
	}
	if message.SenderID != current.ID {
		return "", fmt.Errorf("%w: you can delete only your own messages", errors.ErrForbidden)
	}
	if message.Deleted() {
		return messageID, nil
	}
	if _, err := s.gate.RequireMembership(message.ConversationID, current.ID); err != nil {
		return "", err
	}

	if err := s.messages.MarkDeleted(messageID, current.ID, s.now()); err != nil {
		return "", err
	}
	s.log.Info("Message deleted", "message", messageID, "conversation", message.ConversationID)
	return messageID, nil
}

// List returns the conversation's messages ascending by creation time, each
// enriched with the sender name, viewer flags and the reaction aggregate.
// Sender names come from one batched lookup of the distinct senders;
// per-message aggregates are gathered concurrently since they are
// independent.
//
// A caller without identity hard-fails; one without a linked profile or
// membership gets an empty result.
func (s *MessageService) List(identity domain.Identity, conversationID string) ([]MessageView, error) {
	if identity.Anonymous() {
		return nil, errors.ErrUnauthorized
	}
	current, err := s.resolver.ResolveCurrentUser(identity)
	if errors.Is(err, errors.ErrProfileMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.RequireMembership(conversationID, current.ID); err != nil {
		if errors.Is(err, errors.ErrForbidden) {
			return nil, nil
		}
		return nil, err
	}

	messages, err := s.messages.ListByConversation(conversationID)
	if err != nil {
		return nil, err
	}

	senderIDs := lo.Uniq(lo.Map(messages, func(m domain.Message, _ int) string {
		return m.SenderID
	}))
	senders, err := s.users.GetMany(senderIDs)
	if err != nil {
		return nil, err
	}

	type row struct {
		view MessageView
		err  error
	}
	rows := parallel.Map(messages, func(message domain.Message, _ int) row {
		reactions, err := s.aggregator.Aggregate(message.ID, current.ID)
		if err != nil {
			return row{err: err}
		}
		senderName := unknownSenderName
		if sender, ok := senders[message.SenderID]; ok {
			senderName = sender.Name
		}
		return row{view: MessageView{
			ID:         message.ID,
			SenderID:   message.SenderID,
			SenderName: senderName,
			Body:       message.Body,
			CreatedAt:  message.CreatedAt,
			IsMine:     message.SenderID == current.ID,
			IsDeleted:  message.Deleted(),
			Reactions:  reactions,
		}}
	})

	views := make([]MessageView, 0, len(rows))
	for _, r := range rows {
		if r.err != nil {
			return nil, r.err
		}
		views = append(views, r.view)
	}
	return views, nil
}
