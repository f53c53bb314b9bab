package server

import (
	"io"
	"net/http"

	"github.com/EPecherkin/innergy-chat/chat"
	"github.com/EPecherkin/innergy-chat/logger"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type textRequest struct {
	Text string `json:"text"`
}

func (server *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": "Innergy Chat"})
}

func (server *Server) createSession(c *gin.Context) {
	session := server.registry.Open()
	c.JSON(http.StatusCreated, server.view(session.ID(), session.State()))
}

func (server *Server) getSession(c *gin.Context) {
	session, ok := server.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, server.view(session.ID(), session.State()))
}

func (server *Server) deleteSession(c *gin.Context) {
	if err := server.registry.Close(c.Param("id")); err != nil {
		server.abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (server *Server) putDraft(c *gin.Context) {
	session, ok := server.session(c)
	if !ok {
		return
	}
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := session.SetDraft(req.Text); err != nil {
		server.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, server.view(session.ID(), session.State()))
}

// postMessage answers as soon as the user message is appended; the reply
// arrives through the event stream or a later GET.
func (server *Server) postMessage(c *gin.Context) {
	session, ok := server.session(c)
	if !ok {
		return
	}
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if _, err := session.Submit(c.Request.Context(), req.Text); err != nil {
		server.abort(c, err)
		return
	}
	c.JSON(http.StatusAccepted, server.view(session.ID(), session.State()))
}

// events streams a "view" event for the current state and for every change after it.
// Slow readers skip intermediate states but always get the latest one.
func (server *Server) events(c *gin.Context) {
	session, ok := server.session(c)
	if !ok {
		return
	}

	updates := make(chan chat.State, 1)
	unsubscribe := session.Subscribe(func(state chat.State) {
		for {
			select {
			case updates <- state:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()
	select {
	case updates <- session.State():
	default:
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case state := <-updates:
			c.SSEvent("view", server.view(session.ID(), state))
			return true
		}
	})
}

func (server *Server) session(c *gin.Context) (*chat.Session, bool) {
	session, err := server.registry.Get(c.Param("id"))
	if err != nil {
		server.abort(c, err)
		return nil, false
	}
	return session, true
}

func (server *Server) abort(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrUnknownSession):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, chat.ErrBlankInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is blank"})
	case errors.Is(err, chat.ErrPending):
		c.JSON(http.StatusConflict, gin.H{"error": "a reply is still pending"})
	default:
		server.deps.Logger.With(logger.ERROR, err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
