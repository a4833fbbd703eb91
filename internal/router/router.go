package router

import (
	"fmt"
	"log/slog"

	"github.com/ayaka01/chimeo-core/internal/auth"
	"github.com/ayaka01/chimeo-core/internal/config"
	"github.com/ayaka01/chimeo-core/internal/database"
	"github.com/ayaka01/chimeo-core/internal/handler"
	mw "github.com/ayaka01/chimeo-core/internal/middleware"
	"github.com/ayaka01/chimeo-core/internal/repository"
	"github.com/ayaka01/chimeo-core/internal/service"
	"github.com/ayaka01/chimeo-core/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// App bundles the wired gin engine with the resources it owns, so
// cmd/server can shut them down cleanly.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *database.RedisClient
}

// NewApp wires config, storage, the repository/service/ws layers, and the
// gin route table.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewPostgresConnection(cfg.Database.URI)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	var rawRedis *redis.Client
	redisClient, err := database.NewRedisConnection(&cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, last-seen cache disabled", "error", err)
	} else {
		rawRedis = redisClient.GetClient()
	}

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	lastSeen := repository.NewLastSeenCache(rawRedis)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessExpireMinutes, cfg.JWT.RefreshExpireDays)
	policy := auth.PasswordPolicy{MinLength: 8, RequireSpecialChar: false}

	authService := service.NewAuthService(userRepo, tokens, policy, lastSeen)
	socialService := service.NewSocialService(friendRepo, userRepo)
	messageService := service.NewMessageService(messageRepo, userRepo, socialService)

	manager := ws.NewManager()
	endpoint := ws.NewEndpoint(manager, tokens, messageService, lastSeen)

	authHandler := handler.NewAuthHandler(authService)
	socialHandler := handler.NewSocialHandler(socialService)
	messageHandler := handler.NewMessageHandler(messageService, manager)
	realtimeHandler := handler.NewRealtimeHandler(endpoint)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(mw.LogAPI())
	engine.Use(mw.CORS(cfg.CORS))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	authGroup := engine.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/me", mw.Auth(authService), authHandler.Me)
	}

	usersGroup := engine.Group("/users", mw.Auth(authService))
	{
		usersGroup.GET("/search", socialHandler.Search)
		usersGroup.GET("/friends", socialHandler.ListFriends)
		usersGroup.POST("/friends/request", socialHandler.SendFriendRequest)
		usersGroup.POST("/friends/respond", socialHandler.RespondFriendRequest)
		usersGroup.GET("/friends/requests/received", socialHandler.ListReceivedRequests)
		usersGroup.GET("/friends/requests/sent", socialHandler.ListSentRequests)
	}

	messagesGroup := engine.Group("/messages")
	{
		messagesGroup.GET("/ws/:username", realtimeHandler.Serve)

		authed := messagesGroup.Group("", mw.Auth(authService))
		authed.POST("/", messageHandler.Send)
		authed.GET("/pending", messageHandler.ListPending)
		authed.POST("/delivered/:message_id", messageHandler.MarkDelivered)
	}

	return &App{Router: engine, DB: db, Redis: redisClient}, nil
}
