// Package web provides the HTTP and websocket server for arcadia,
// including routing, middleware and background job scheduling.
package web

import (
	"context"
	"embed"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/arcadia-chat/arcadia/config"
	"github.com/arcadia-chat/arcadia/logger"
	"github.com/arcadia-chat/arcadia/util/common"
	"github.com/arcadia-chat/arcadia/web/controller"
	"github.com/arcadia-chat/arcadia/web/job"
	"github.com/arcadia-chat/arcadia/web/locale"
	"github.com/arcadia-chat/arcadia/web/middleware"
	"github.com/arcadia-chat/arcadia/web/service"
	"github.com/arcadia-chat/arcadia/web/token"
	"github.com/arcadia-chat/arcadia/web/websocket"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

//go:embed translation/*
var i18nFS embed.FS

// Server is the arcadia web server with controllers, the websocket hub and
// scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	hub       *websocket.Hub
	wsService *service.WebSocketService

	auth      *controller.AuthController
	twoFactor *controller.TwoFactorController
	chat      *controller.ChatController
	users     *controller.UserController
	server    *controller.ServerController
	ws        *controller.WebSocketController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initRouter initializes Gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	if webDomain := config.GetWebDomain(); webDomain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(webDomain))
	}

	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/ws", "/metrics"}),
	))

	if err := locale.InitLocalizer(i18nFS); err != nil {
		return nil, err
	}
	engine.Use(locale.LocalizerMiddleware())
	engine.Use(middleware.MetricsMiddleware())

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	g := engine.Group("/")
	s.auth = controller.NewAuthController(g)
	s.twoFactor = controller.NewTwoFactorController(g)
	s.chat = controller.NewChatController(g, s.wsService)
	s.users = controller.NewUserController(g)
	s.server = controller.NewServerController(g)
	s.ws = controller.NewWebSocketController(g, s.wsService)

	// 404 handler
	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules background maintenance jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@daily", job.NewCheckpointJob())
	s.cron.AddJob("@daily", job.NewClearLogsJob())
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	token.Init(config.GetTokenSecret())

	s.cron = cron.New()
	s.cron.Start()

	s.hub = websocket.NewHub()
	go s.hub.Run()
	s.wsService = service.NewWebSocketService(s.hub)

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server, the hub and cron jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.hub != nil {
		s.hub.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }

// GetCron returns the server's cron scheduler instance.
func (s *Server) GetCron() *cron.Cron { return s.cron }
