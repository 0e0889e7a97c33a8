package delivery_http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"feed-service/internal/application/identity"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/infrastructure/config"
	"feed-service/internal/infrastructure/logger"
)

type Server struct {
	echo    *echo.Echo
	address string
	port    int
	log     *logger.Logger
}

// Handlers groups everything the REST surface routes to. GraphQL is
// optional and mounted at /graphql when set.
type Handlers struct {
	Feed    *FeedHandler
	Auth    *AuthHandler
	Image   *ImageHandler
	GraphQL http.Handler
}

func NewServer(cfg config.HTTPServer, imagesDir string, handlers Handlers, gate *identity.Gate, log *logger.Logger, metrics ports.MetricsProvider) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout
	e.Validator = &requestValidator{validate: validator.New()}
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(requestLogger(log, metrics))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.Secure())
	e.Use(middleware.Gzip())
	e.Use(identityMiddleware(gate))

	// Stored references are "<dir base>/<file>", so they resolve under this route.
	e.Static("/"+path.Base(imagesDir), imagesDir)
	registerRoutes(e, handlers)

	return &Server{echo: e, address: cfg.Address, port: cfg.Port, log: log}
}

func registerRoutes(e *echo.Echo, h Handlers) {
	if h.Image != nil {
		e.PUT("/post-image", h.Image.UploadImage)
	}

	if h.Feed != nil {
		feed := e.Group("/feed")
		feed.GET("/posts", h.Feed.ListPosts)
		feed.POST("/post", h.Feed.CreatePost)
		feed.GET("/post/:postId", h.Feed.GetPost)
		feed.PUT("/post/:postId", h.Feed.UpdatePost)
		feed.DELETE("/post/:postId", h.Feed.DeletePost)
	}

	if h.Auth != nil {
		auth := e.Group("/auth")
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
	}

	if h.GraphQL != nil {
		e.Match([]string{http.MethodGet, http.MethodPost}, "/graphql", echo.WrapHandler(h.GraphQL))
	}
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Run() error {
	address := fmt.Sprintf("%s:%d", s.address, s.port)
	s.log.Info("Starting HTTP server", slog.Int("port", s.port))
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
