package httpapi

import (
	"fmt"
	"time"

	"airwaves/messaging-service/internal/auth"
	"airwaves/messaging-service/internal/config"
	"airwaves/messaging-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const maxMultipartMemory = 32 << 20

type Server struct {
	Chat     service.ChatService
	Auth     auth.Service
	Sessions *service.SessionManager
	Config   config.HTTPConfig
	Logger   *logrus.Logger

	validate *validator.Validate
}

func NewServer(chat service.ChatService, authSvc auth.Service, sessions *service.SessionManager, cfg config.HTTPConfig, logger *logrus.Logger) *Server {
	return &Server{
		Chat:     chat,
		Auth:     authSvc,
		Sessions: sessions,
		Config:   cfg,
		Logger:   logger,
		validate: validator.New(),
	}
}

func (s *Server) Router() *gin.Engine {
	if s.Config.Mode != "" {
		gin.SetMode(s.Config.Mode)
	}

	r := gin.New()
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output: s.Logger.WriterLevel(logrus.InfoLevel),
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/healthz"},
	}))
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))
	r.MaxMultipartMemory = maxMultipartMemory

	s.defineRoutes(r)
	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.Config.AllowedOrigins) == 0 || (len(s.Config.AllowedOrigins) == 1 && s.Config.AllowedOrigins[0] == "*") {
		// credentials cannot be combined with a wildcard origin
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = s.Config.AllowedOrigins
	}
	return cfg
}

func (s *Server) defineRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/signin", s.handleSignin())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.POST("/auth/signout", s.handleSignout())
	authorized.GET("/conversations", s.handleListConversations())
	authorized.POST("/conversations", s.handleStartConversation())
	authorized.GET("/conversations/:id/messages", s.handleGetMessages())
	authorized.POST("/conversations/:id/messages", s.handleSendMessage())
	authorized.POST("/conversations/:id/read", s.handleMarkRead())
	authorized.GET("/ws", s.handleWebsocket())
}
