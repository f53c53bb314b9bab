package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/EPecherkin/innergy-chat/chat"
	"github.com/EPecherkin/innergy-chat/deps"
	"github.com/EPecherkin/innergy-chat/render"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	SHUTDOWN_TIMEOUT    = 5 * time.Second
	READ_HEADER_TIMEOUT = 10 * time.Second
)

//go:embed templates/*.html
var templates embed.FS

// Server is the browser surface: the chat page plus the JSON/SSE API it talks to.
type Server struct {
	registry *chat.Registry
	renderer *render.Renderer
	engine   *gin.Engine

	deps deps.Deps
}

func NewServer(registry *chat.Registry, renderer *render.Renderer, deps deps.Deps) *Server {
	deps = deps.WithCaller("server")
	deps.Logger.Debug("Creating server")

	server := &Server{registry: registry, renderer: renderer, deps: deps}
	server.engine = server.routes()
	return server
}

func (server *Server) Handler() http.Handler {
	return server.engine
}

func (server *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(recovery(server.deps.Logger), accessLog(server.deps.Logger))
	engine.SetHTMLTemplate(template.Must(template.New("").ParseFS(templates, "templates/*.html")))

	engine.GET("/", server.index)

	api := engine.Group("/api/sessions")
	api.POST("", server.createSession)
	api.GET("/:id", server.getSession)
	api.DELETE("/:id", server.deleteSession)
	api.PUT("/:id/draft", server.putDraft)
	api.POST("/:id/messages", server.postMessage)
	api.GET("/:id/events", server.events)

	return engine
}

// Run serves until ctx is cancelled. Open event streams are closed on shutdown.
func (server *Server) Run(ctx context.Context, addr string) error {
	server.deps.Logger.Info("Running server", "addr", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.engine,
		ReadHeaderTimeout: READ_HEADER_TIMEOUT,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", errors.WithStack(err))
	case <-ctx.Done():
		server.deps.Logger.Info("Server interrupted, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http: %w", errors.WithStack(err))
		}
		return nil
	}
}
