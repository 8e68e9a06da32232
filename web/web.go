// Package web provides the livelog web server: HTTP serving, routing,
// session handling and background job scheduling.
package web

import (
	"context"
	"embed"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ku-unplugged/livelog/config"
	"github.com/ku-unplugged/livelog/logger"
	"github.com/ku-unplugged/livelog/util/common"
	"github.com/ku-unplugged/livelog/util/random"
	"github.com/ku-unplugged/livelog/web/controller"
	"github.com/ku-unplugged/livelog/web/job"
	"github.com/ku-unplugged/livelog/web/locale"
	"github.com/ku-unplugged/livelog/web/middleware"
	"github.com/ku-unplugged/livelog/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed translation/*
var i18nFS embed.FS

// Server is the livelog web server with its controllers and scheduled
// jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	index    *controller.IndexController
	accounts *controller.AccountController
	lives    *controller.LiveController
	songs    *controller.SongController
	entries  *controller.EntryController
	status   *controller.StatusController

	accountService service.AccountService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	if webDomain := config.GetDomain(); webDomain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(webDomain))
	}

	secret := config.GetSessionSecret()
	if secret == "" {
		if !config.IsDebug() {
			return nil, common.NewError("LIVELOG_SESSION_SECRET must be set")
		}
		secret = random.Seq(32)
	}

	basePath := config.GetBasePath()

	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.GetSessionMaxAge(),
		HttpOnly: true,
	})
	engine.Use(sessions.Sessions("livelog", store))

	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middleware.RequestId())
	engine.Use(locale.LocalizerMiddleware())
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", basePath)
		c.Next()
	})
	engine.Use(middleware.ResolveAccount(&s.accountService))

	g := engine.Group(basePath)
	s.index = controller.NewIndexController(g)
	s.accounts = controller.NewAccountController(g)
	s.lives = controller.NewLiveController(g)
	s.songs = controller.NewSongController(g)
	s.entries = controller.NewEntryController(g)
	s.status = controller.NewStatusController(g)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

func (s *Server) startTask() {
	s.cron.AddJob("@daily", job.NewClearLogsJob())

	rememberMaxAge := time.Duration(config.GetRememberMaxAge()) * time.Second
	s.cron.AddJob("@daily", job.NewStaleRememberJob(rememberMaxAge))
}

// Start initializes the localizer, router and cron, then serves until
// Stop is called.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	if err = locale.InitLocalizer(i18nFS); err != nil {
		return err
	}

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", config.GetListen())
	if err != nil {
		return err
	}
	logger.Info("web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and its cron jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
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

func (s *Server) GetCtx() context.Context { return s.ctx }

func (s *Server) GetCron() *cron.Cron { return s.cron }
