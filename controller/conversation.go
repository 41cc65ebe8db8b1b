package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chathub-backend/config"
	"chathub-backend/errs"
	"chathub-backend/logic"
	"chathub-backend/session"
)

// ConversationController handles HTTP requests
type ConversationController struct {
	convoLogic *logic.ConversationLogic
	userLogic  *logic.UserLogic
	sessions   *session.Registry
}

func NewConversationController(
	convoLogic *logic.ConversationLogic,
	userLogic *logic.UserLogic,
	sessions *session.Registry,
) *ConversationController {
	return &ConversationController{
		convoLogic: convoLogic,
		userLogic:  userLogic,
		sessions:   sessions,
	}
}

// GetConversations handles GET /api/chats
func (c *ConversationController) GetConversations(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}
	user, err := c.userLogic.GetUser(userID)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	convos, err := c.convoLogic.ListConversations(user)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	view := c.sessions.View(userID)
	view.ReplaceAll(convos)
	ctx.JSON(http.StatusOK, view.Chats())
}

// GetConversation handles GET /api/chat/:id
func (c *ConversationController) GetConversation(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}
	user, err := c.userLogic.GetUser(userID)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	convo, messages, err := c.convoLogic.Activate(convoID, user)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	view := c.sessions.View(userID)
	view.SetActive(convo, messages)
	chat, _ := view.ActiveChat()
	ctx.JSON(http.StatusOK, chat)
}

// CreateConversation handles POST /api/chat/new
func (c *ConversationController) CreateConversation(ctx *gin.Context) {
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
		Title string `json:"title"`
		Model string `json:"model"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Model == "" {
		req.Model = config.GlobalConfig.Chat.DefaultModel
	}

	convo, err := c.convoLogic.CreateConversation(user, req.Title, req.Model)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, convo)
}

// DeleteConversation handles DELETE /api/chat/:id
func (c *ConversationController) DeleteConversation(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}
	user, err := c.userLogic.GetUser(userID)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	rawID := ctx.Param("id")
	view := c.sessions.View(userID)

	// A draft only ever lived in the projection; dropping it there is the
	// whole delete.
	if session.IsDraftID(rawID) {
		view.Remove(rawID)
		ctx.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	convoID, err := uuid.Parse(rawID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	if err := c.convoLogic.DeleteConversation(convoID, user); err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	view.Remove(rawID)
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// ListModels handles GET /api/models
func (c *ConversationController) ListModels(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"default": config.GlobalConfig.Chat.DefaultModel,
		"models":  config.GlobalConfig.Chat.Models,
	})
}
