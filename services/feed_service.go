//go:generate go run go.uber.org/mock/mockgen -source=feed_service.go -destination=../mocks/mock_feed_service.go -package=mocks
package services

import (
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/repositories"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/samber/lo/parallel"
)

type IFeedService interface {
	PreviewOne(identity domain.Identity, conversationID string) (*Preview, error)
	ListMine(identity domain.Identity) ([]Preview, error)
}

// FeedService composes conversation previews, unread counts and last-message
// summaries. It only reads; every mutation lives elsewhere.
type FeedService struct {
	convs       repositories.IConversationRepository
	memberships repositories.IMembershipRepository
	messages    repositories.IMessageRepository
	users       repositories.IUserRepository
	resolver    ICurrentUserResolver
	log         *slog.Logger
	now         func() time.Time
}

func NewFeedService(
	convs repositories.IConversationRepository,
	memberships repositories.IMembershipRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	resolver ICurrentUserResolver,
	log *slog.Logger,
) *FeedService {
	return &FeedService{
		convs:       convs,
		memberships: memberships,
		messages:    messages,
		users:       users,
		resolver:    resolver,
		log:         log,
		now:         time.Now,
	}
}

// PreviewOne builds the title/participants view of a single conversation.
// Non-members and anonymous callers get nil, never an error, so existence of
// guessed ids is not confirmed.
func (s *FeedService) PreviewOne(identity domain.Identity, conversationID string) (*Preview, error) {
	current, err := s.resolver.ResolveCurrentUser(identity)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrUnauthorized), errors.Is(err, errors.ErrProfileMissing):
		return nil, nil
	default:
		return nil, err
	}
	if _, err := s.memberships.Get(conversationID, current.ID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	conv, err := s.convs.GetByID(conversationID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	participants, err := s.loadParticipants(conversationID)
	if err != nil {
		return nil, err
	}
	preview := s.composePreview(conv, participants, current.ID)
	return &preview, nil
}

// ListMine assembles the viewer's feed. The per-conversation rows have no
// data dependency on each other, so they are gathered concurrently and joined
// before sorting.
func (s *FeedService) ListMine(identity domain.Identity) ([]Preview, error) {
	current, err := s.resolver.ResolveCurrentUser(identity)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrUnauthorized), errors.Is(err, errors.ErrProfileMissing):
		return nil, nil
	default:
		return nil, err
	}

	memberships, err := s.memberships.ListByUser(current.ID)
	if err != nil {
		return nil, err
	}

	type row struct {
		preview *Preview
		err     error
	}
	rows := parallel.Map(memberships, func(membership domain.Membership, _ int) row {
		preview, err := s.buildFeedRow(membership, current.ID)
		return row{preview: preview, err: err}
	})

	previews := make([]Preview, 0, len(rows))
	for _, r := range rows {
		if r.err != nil {
			return nil, r.err
		}
		if r.preview != nil {
			previews = append(previews, *r.preview)
		}
	}
	sort.Slice(previews, func(i, j int) bool {
		return previews[i].LastMessageAt.After(previews[j].LastMessageAt)
	})
	return previews, nil
}

// buildFeedRow assembles one feed entry: participants, latest message,
// preview string and the unread count derived from the read cursor.
func (s *FeedService) buildFeedRow(membership domain.Membership, viewerID string) (*Preview, error) {
	conv, err := s.convs.GetByID(membership.ConversationID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	participants, err := s.loadParticipants(conv.ID)
	if err != nil {
		return nil, err
	}
	preview := s.composePreview(conv, participants, viewerID)

	latest, err := s.messages.LatestInConversation(conv.ID)
	if err != nil {
		return nil, err
	}
	switch {
	case latest == nil:
		preview.LastMessagePreview = noMessagesPreview
		preview.LastMessageAt = conv.UpdatedAt
	case latest.Deleted():
		preview.LastMessagePreview = deletedMessagePreview
		preview.LastMessageAt = latest.CreatedAt
	default:
		preview.LastMessagePreview = latest.Body
		preview.LastMessageAt = latest.CreatedAt
	}

	unread, err := s.messages.CountUnread(conv.ID, viewerID, membership.LastReadAt)
	if err != nil {
		return nil, err
	}
	preview.UnreadCount = unread
	return &preview, nil
}

func (s *FeedService) loadParticipants(conversationID string) ([]Participant, error) {
	members, err := s.memberships.ListByConversation(conversationID)
	if err != nil {
		return nil, err
	}
	profiles, err := s.users.GetMany(lo.Map(members, func(m domain.Membership, _ int) string {
		return m.UserID
	}))
	if err != nil {
		return nil, err
	}

	participants := make([]Participant, 0, len(members))
	for _, member := range members {
		profile, ok := profiles[member.UserID]
		if !ok {
			continue
		}
		participants = append(participants, Participant{
			ID:         profile.ID,
			Name:       profile.Name,
			ImageURL:   profile.ImageURL,
			LastSeenAt: profile.LastSeenAt,
		})
	}
	return participants, nil
}

// composePreview fills the identity fields: title, member count and, for dms,
// the counterpart summary.
func (s *FeedService) composePreview(conv domain.Conversation, participants []Participant, viewerID string) Preview {
	preview := Preview{
		ID:           conv.ID,
		Type:         conv.Type,
		MemberCount:  len(participants),
		Participants: participants,
	}

	if conv.Type == domain.ConversationGroup {
		preview.Title = conv.Name
		if preview.Title == "" {
			preview.Title = groupFallbackTitle
		}
		return preview
	}

	preview.Title = dmFallbackTitle
	for i := range participants {
		if participants[i].ID != viewerID {
			counterpart := participants[i]
			preview.Counterpart = &counterpart
			preview.Title = counterpart.Name
			break
		}
	}
	return preview
}
