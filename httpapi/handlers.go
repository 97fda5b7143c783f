package httpapi

import (
	"chat-core/errors"
	"chat-core/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	identity services.IIdentityService
	dir      services.IDirectoryService
	members  services.IMembershipService
	messages services.IMessageService
	react    services.IReactionService
	typing   services.ITypingService
	feed     services.IFeedService
}

func NewHandlers(
	identity services.IIdentityService,
	dir services.IDirectoryService,
	members services.IMembershipService,
	messages services.IMessageService,
	react services.IReactionService,
	typing services.ITypingService,
	feed services.IFeedService,
) *Handlers {
	return &Handlers{
		identity: identity,
		dir:      dir,
		members:  members,
		messages: messages,
		react:    react,
		typing:   typing,
		feed:     feed,
	}
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrUnauthorized), errors.Is(err, errors.ErrProfileMissing):
		status = http.StatusUnauthorized
	case errors.Is(err, errors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

type upsertUserRequest struct {
	ExternalID string `json:"externalId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	ImageURL   string `json:"imageUrl"`
	Email      string `json:"email" binding:"omitempty,email"`
}

func (h *Handlers) upsertUser(c *gin.Context) {
	var req upsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := h.identity.UpsertUser(callerIdentity(c), req.ExternalID, req.Name, req.ImageURL, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID})
}

func (h *Handlers) currentUser(c *gin.Context) {
	user, err := h.identity.GetCurrentUserProfile(callerIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handlers) searchUsers(c *gin.Context) {
	users, err := h.identity.SearchUsers(callerIdentity(c), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handlers) touchPresence(c *gin.Context) {
	lastSeenAt, err := h.identity.TouchPresence(callerIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lastSeenAt": lastSeenAt})
}

type createDmRequest struct {
	OtherUserID string `json:"otherUserId" binding:"required"`
}

func (h *Handlers) createDm(c *gin.Context) {
	var req createDmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conversationID, err := h.dir.GetOrCreateDm(callerIdentity(c), req.OtherUserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversationId": conversationID})
}

type createGroupRequest struct {
	Name      string   `json:"name" binding:"required"`
	MemberIDs []string `json:"memberIds" binding:"required"`
}

func (h *Handlers) createGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conversationID, err := h.dir.CreateGroup(callerIdentity(c), req.Name, req.MemberIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversationId": conversationID})
}

func (h *Handlers) listConversations(c *gin.Context) {
	previews, err := h.feed.ListMine(callerIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": previews})
}

func (h *Handlers) conversationPreview(c *gin.Context) {
	preview, err := h.feed.PreviewOne(callerIdentity(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": preview})
}

func (h *Handlers) markRead(c *gin.Context) {
	receipt, err := h.members.MarkRead(callerIdentity(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *Handlers) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	messageID, err := h.messages.Send(callerIdentity(c), c.Param("id"), req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messageId": messageID})
}

func (h *Handlers) listMessages(c *gin.Context) {
	views, err := h.messages.List(callerIdentity(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": views})
}

func (h *Handlers) deleteMessage(c *gin.Context) {
	messageID, err := h.messages.SoftDelete(callerIdentity(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messageId": messageID})
}

type toggleReactionRequest struct {
	Emoji string `json:"emoji" binding:"required,reaction"`
}

func (h *Handlers) toggleReaction(c *gin.Context) {
	var req toggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.react.Toggle(callerIdentity(c), c.Param("id"), req.Emoji)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type setTypingRequest struct {
	IsTyping bool `json:"isTyping"`
}

func (h *Handlers) setTyping(c *gin.Context) {
	var req setTypingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	eventID, err := h.typing.SetTyping(callerIdentity(c), c.Param("id"), req.IsTyping)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"eventId": eventID})
}

func (h *Handlers) listTyping(c *gin.Context) {
	typists, err := h.typing.ListActive(callerIdentity(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"typing": typists})
}
