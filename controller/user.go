package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chathub-backend/errs"
	"chathub-backend/logic"
)

// UserController handles HTTP requests
type UserController struct {
	userLogic *logic.UserLogic
}

func NewUserController(logic *logic.UserLogic) *UserController {
	return &UserController{userLogic: logic}
}

// Register handles POST /api/auth/register
func (c *UserController) Register(ctx *gin.Context) {
	type Request struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := c.userLogic.Register(req.Name, req.Email, req.Password)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// Login handles POST /api/auth/login
func (c *UserController) Login(ctx *gin.Context) {
	type Request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, expireAt, err := c.userLogic.Login(req.Email, req.Password)
	if err != nil {
		if errs.IsKind(err, errs.Authorization) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":      user,
		"token":     token,
		"expire_at": expireAt,
	})
}

// GetUser handles GET /api/user
func (c *UserController) GetUser(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}

	user, err := c.userLogic.GetUser(userID)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// UpdateAvatar handles PUT /api/user/avatar
func (c *UserController) UpdateAvatar(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}

	type Request struct {
		Avatar string `json:"avatar" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := c.userLogic.UpdateAvatar(userID, req.Avatar)
	if err != nil {
		ctx.JSON(errs.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, user)
}
