package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"chathub-backend/config"
	"chathub-backend/controller"
	"chathub-backend/dao"
	"chathub-backend/logic"
	"chathub-backend/middleware"
	"chathub-backend/models"
	"chathub-backend/pkg"
	"chathub-backend/session"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Initialize config
	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: chathub-backend <config.yaml>")
	}
	configFile := os.Args[1]
	if err := config.LoadConfig(configFile); err != nil {
		log.Fatal().Err(err).Str("path", configFile).Msg("failed to load config")
	}

	// Initialize database
	db, err := gorm.Open(postgres.Open(config.GlobalConfig.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize completion gateway
	gemini, err := pkg.NewGeminiClient(
		context.Background(),
		config.GlobalConfig.Chat.APIKey,
		config.GlobalConfig.Chat.MaxOutputTokens,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize gemini client")
	}

	// Initialize DAOs
	userDAO := dao.NewUserDAO(db)
	convoDAO := dao.NewConversationDAO(db)
	messageDAO := dao.NewMessageDAO(db)

	// Initialize Logics
	userLogic := logic.NewUserLogic(userDAO)
	convoLogic := logic.NewConversationLogic(convoDAO, messageDAO, gemini)

	// Per-user session projections
	sessions := session.NewRegistry()

	// Initialize Controllers
	userCtrl := controller.NewUserController(userLogic)
	convoCtrl := controller.NewConversationController(convoLogic, userLogic, sessions)
	messageCtrl := controller.NewMessageController(convoLogic, userLogic, sessions)

	// Setup Gin router
	r := gin.Default()
	r.POST("/api/auth/register", userCtrl.Register)
	r.POST("/api/auth/login", userCtrl.Login)
	r.GET("/api/user", middleware.Auth, userCtrl.GetUser)
	r.PUT("/api/user/avatar", middleware.Auth, userCtrl.UpdateAvatar)
	r.GET("/api/models", middleware.Auth, convoCtrl.ListModels)
	r.GET("/api/chats", middleware.Auth, convoCtrl.GetConversations)
	r.GET("/api/chat/:id", middleware.Auth, convoCtrl.GetConversation)
	r.POST("/api/chat/new", middleware.Auth, convoCtrl.CreateConversation)
	r.POST("/api/chat", middleware.Auth, messageCtrl.SendMessage)
	r.DELETE("/api/chat/:id", middleware.Auth, convoCtrl.DeleteConversation)

	// Run server
	addr := fmt.Sprintf(":%d", config.GlobalConfig.Server.Port)
	log.Info().Str("addr", addr).Msg("chathub backend listening")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to run server")
	}
}
