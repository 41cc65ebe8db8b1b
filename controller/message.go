package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chathub-backend/config"
	"chathub-backend/errs"
	"chathub-backend/logic"
	"chathub-backend/models"
	"chathub-backend/session"
)

// MessageController handles HTTP requests
type MessageController struct {
	convoLogic *logic.ConversationLogic
	userLogic  *logic.UserLogic
	sessions   *session.Registry
}

func NewMessageController(
	convoLogic *logic.ConversationLogic,
	userLogic *logic.UserLogic,
	sessions *session.Registry,
) *MessageController {
	return &MessageController{
		convoLogic: convoLogic,
		userLogic:  userLogic,
		sessions:   sessions,
	}
}

// SendMessage handles POST /api/chat. Without a durable chat id the message
// starts a new conversation: the view gets an optimistic draft, the manager
// creates the durable record, and the draft is reconciled away against a
// fresh authoritative list.
func (c *MessageController) SendMessage(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}
	user, err := c.userLogic.GetUser(userID)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	type Request struct {
		Message string `json:"message" binding:"required"`
		ChatID  string `json:"chat_id"`
		Model   string `json:"model"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Model == "" {
		req.Model = config.GlobalConfig.Chat.DefaultModel
	}

	view := c.sessions.View(userID)

	if req.ChatID == "" || session.IsDraftID(req.ChatID) {
		c.sendFirstMessage(ctx, view, user, req.Message, req.Model)
		return
	}

	convoID, err := uuid.Parse(req.ChatID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	reply, err := c.convoLogic.SendMessage(ctx.Request.Context(), convoID, user, req.Message)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	// Refresh the cached transcript so the projection shows the full exchange.
	if convo, messages, actErr := c.convoLogic.Activate(convoID, user); actErr == nil {
		view.SetActive(convo, messages)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"response": reply.Content,
		"chat_id":  convoID.String(),
	})
}

func (c *MessageController) sendFirstMessage(ctx *gin.Context, view *session.View, user *models.User, text, model string) {
	draft := view.StartDraft(text, model, time.Now())

	exchange, err := c.convoLogic.CreateFromFirstMessage(ctx.Request.Context(), user, text, model)
	if err != nil {
		view.FailDraft(draft.ID, "Failed to start the chat. Please try again.", time.Now())
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error(), "draft_id": draft.ID})
		return
	}

	// Reconciliation: fetch the authoritative list and transcript, then swap
	// the draft out wholesale for the durable entry.
	summaries, err := c.convoLogic.ListConversations(user)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	convo, messages, err := c.convoLogic.Activate(exchange.Conversation.ID, user)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	view.ResolveDraft(draft.ID, summaries, convo, messages)

	ctx.JSON(http.StatusOK, gin.H{
		"response": exchange.Reply.Content,
		"chat_id":  exchange.Conversation.ID.String(),
	})
}
