package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coedit/coedit/internal/document"
	syncsvc "github.com/coedit/coedit/internal/sync"
	"github.com/coedit/coedit/internal/users"
	"github.com/coedit/coedit/pkg/logger"
	"github.com/coedit/coedit/pkg/middleware"
)

// DocumentHandler exposes the synchronization facade over HTTP.
type DocumentHandler struct {
	svc      *syncsvc.Service
	profiles *users.Service
}

func NewDocumentHandler(svc *syncsvc.Service, profiles *users.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc, profiles: profiles}
}

// Register mounts the document routes on the given (already authenticated)
// group.
func (h *DocumentHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/documents", h.create)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:id", h.get)
	rg.PUT("/documents/:id", h.update)
	rg.DELETE("/documents/:id", h.delete)
	rg.PUT("/documents/:id/presence", h.heartbeat)
	rg.GET("/documents/:id/active-users", h.activeUsers)
	rg.GET("/documents/:id/history", h.history)
	rg.GET("/documents/:id/watch", h.watch)
}

// ProfileSync refreshes the caller's profile from verified claims so presence
// listings can show a name. Best-effort; failures never block the request.
func ProfileSync(profiles *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get(middleware.ClaimsKey); ok {
			if cm, ok := v.(map[string]interface{}); ok {
				if _, err := profiles.UpsertFromClaims(c.Request.Context(), cm); err != nil {
					logger.Sugar.Warnf("profile sync failed: %v", err)
				}
			}
		}
		c.Next()
	}
}

func (h *DocumentHandler) create(c *gin.Context) {
	var req struct {
		Title    string `json:"title"`
		Type     string `json:"type"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body := document.Body{Kind: document.Kind(req.Type), Language: req.Language}
	id, err := h.svc.CreateDocument(c.Request.Context(), middleware.CallerID(c), req.Title, body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *DocumentHandler) list(c *gin.Context) {
	docs, err := h.svc.ListDocuments(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DocumentHandler) get(c *gin.Context) {
	doc, err := h.svc.GetDocument(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) update(c *gin.Context) {
	var req struct {
		Content        string `json:"content"`
		CursorPosition int    `json:"cursorPosition"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateDocument(c.Request.Context(), middleware.CallerID(c), c.Param("id"), req.Content, req.CursorPosition); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *DocumentHandler) delete(c *gin.Context) {
	if err := h.svc.DeleteDocument(c.Request.Context(), middleware.CallerID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DocumentHandler) heartbeat(c *gin.Context) {
	var req struct {
		CursorPosition int `json:"cursorPosition"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdatePresence(c.Request.Context(), middleware.CallerID(c), c.Param("id"), req.CursorPosition); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *DocumentHandler) activeUsers(c *gin.Context) {
	recs, err := h.svc.GetActiveUsers(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *DocumentHandler) history(c *gin.Context) {
	recs, err := h.svc.GetHistory(c.Request.Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, document.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, document.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, document.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, document.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Sugar.Errorf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
