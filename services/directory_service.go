//go:generate go run go.uber.org/mock/mockgen -source=directory_service.go -destination=../mocks/mock_directory_service.go -package=mocks
package services

import (
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/repositories"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MinGroupNameLen is the minimum trimmed group-name length, in runes.
const MinGroupNameLen = 2

// MinGroupOthers is how many members besides the creator a group requires.
const MinGroupOthers = 2

type IDirectoryService interface {
	GetOrCreateDm(identity domain.Identity, otherUserID string) (string, error)
	CreateGroup(identity domain.Identity, name string, memberIDs []string) (string, error)
}

type DirectoryService struct {
	users    repositories.IUserRepository
	convs    repositories.IConversationRepository
	resolver ICurrentUserResolver
	log      *slog.Logger
	now      func() time.Time
}

func NewDirectoryService(
	users repositories.IUserRepository,
	convs repositories.IConversationRepository,
	resolver ICurrentUserResolver,
	log *slog.Logger,
) *DirectoryService {
	return &DirectoryService{users: users, convs: convs, resolver: resolver, log: log, now: time.Now}
}

// GetOrCreateDm returns the dm conversation for the caller and otherUserID,
// creating it on first use. Calls from either side of the pair land on the
// same canonical key, so repeats never create duplicates.
func (s *DirectoryService) GetOrCreateDm(identity domain.Identity, otherUserID string) (string, error) {
	current, err := s.resolver.ResolveCurrentUser(identity)
	if err != nil {
		return "", err
	}
	if otherUserID == current.ID {
		return "", fmt.Errorf("%w: cannot start a conversation with yourself", errors.ErrValidation)
	}
	if _, err := s.users.GetByID(otherUserID); err != nil {
		return "", err
	}

	now := s.now()
	conv := domain.Conversation{
		ID:        uuid.NewString(),
		Type:      domain.ConversationDm,
		DmKey:     domain.BuildDmKey(current.ID, otherUserID),
		CreatedBy: current.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	conversationID, created, err := s.convs.CreateDmIfAbsent(conv, []string{current.ID, otherUserID})
	if err != nil {
		return "", err
	}
	if created {
		s.log.Info("Dm conversation created", "conversation", conversationID, "key", conv.DmKey)
	}
	return conversationID, nil
}

// CreateGroup creates a group conversation from a trimmed name and the
// deduplicated member set. All guard checks complete before anything is
// written.
func (s *DirectoryService) CreateGroup(identity domain.Identity, name string, memberIDs []string) (string, error) {
	current, err := s.resolver.ResolveCurrentUser(identity)
	if err != nil {
		return "", err
	}

	cleanedName := strings.TrimSpace(name)
	if utf8.RuneCountInString(cleanedName) < MinGroupNameLen {
		return "", fmt.Errorf("%w: group name must be at least %d characters", errors.ErrValidation, MinGroupNameLen)
	}

	others := lo.Filter(lo.Uniq(memberIDs), func(id string, _ int) bool {
		return id != current.ID
	})
	if len(others) < MinGroupOthers {
		return "", fmt.Errorf("%w: select at least %d other users to create a group", errors.ErrValidation, MinGroupOthers)
	}

	resolved, err := s.users.GetMany(others)
	if err != nil {
		return "", err
	}
	for _, id := range others {
		if _, ok := resolved[id]; !ok {
			return "", fmt.Errorf("%w: user %s does not exist", errors.ErrNotFound, id)
		}
	}

	now := s.now()
	conv := domain.Conversation{
		ID:        uuid.NewString(),
		Type:      domain.ConversationGroup,
		Name:      cleanedName,
		CreatedBy: current.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.convs.CreateGroup(conv, append([]string{current.ID}, others...)); err != nil {
		return "", err
	}
	s.log.Info("Group conversation created", "conversation", conv.ID, "members", len(others)+1)
	return conv.ID, nil
}
