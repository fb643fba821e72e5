// Package server hosts the web delivery channel: a socket.io endpoint bridged
// to strategy.Web plus a few read-only HTTP routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	socket "github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/idilsaglam/todo/internal/store/memstore"
	"github.com/idilsaglam/todo/internal/strategy"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	Addr           string
	StaticDir      string
	AllowedOrigins []string
	PingInterval   time.Duration
	PingTimeout    time.Duration
}

// Server serves the web channel for one strategy.Web.
type Server struct {
	opts   Options
	web    *strategy.Web
	todos  *memstore.List
	log    *log.Logger
	io     *socket.Server
	router *gin.Engine

	closeOnce sync.Once
}

func New(opts Options, web *strategy.Web, todos *memstore.List, logger *log.Logger) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		opts:  opts,
		web:   web,
		todos: todos,
		log:   logger.With("component", "server"),
	}
	s.io = newSocketServer(opts, s.handleConnection)
	s.router = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *gin.Engine {
	if s.log.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  s.opts.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))
	router.Use(requestLogger(s.log))

	router.GET("/healthz", s.health)
	router.GET("/api/todos", s.listTodos)

	sio := gin.WrapH(s.io.ServeHandler(nil))
	router.Any(socketPath+"/*any", sio)

	if s.opts.StaticDir != "" {
		files := http.FileServer(http.Dir(s.opts.StaticDir))
		router.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.Status(http.StatusNotFound)
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}
	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "peers": s.web.Peers()})
}

func (s *Server) listTodos(c *gin.Context) {
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)
	if err := s.todos.Export(c.Writer); err != nil {
		s.log.Error("export todos", "err", err)
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.opts.StaticDir != "" {
		if _, err := os.Stat(s.opts.StaticDir); err != nil {
			s.closeSockets()
			return fmt.Errorf("static dir: %w", err)
		}
	}
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		s.closeSockets()
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		s.closeSockets()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	s.closeSockets()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) closeSockets() {
	s.closeOnce.Do(func() { s.io.Close(nil) })
}
