package httpadapter

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/folio-agent/internal/app/conversation"
	"github.com/PabloGalante/folio-agent/internal/app/portfolio"
	"github.com/PabloGalante/folio-agent/internal/domain"
	"github.com/PabloGalante/folio-agent/internal/observability"
	"github.com/PabloGalante/folio-agent/internal/render"
)

type Options struct {
	// CORSOrigins lists the site origins allowed to call the API and open
	// WebSockets. "*" allows any origin.
	CORSOrigins []string
}

type Server struct {
	echo      *echo.Echo
	chat      *conversation.Service
	portfolio *portfolio.Service
	upgrader  websocket.Upgrader
}

func NewServer(chat *conversation.Service, portfolio *portfolio.Service, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		chat:      chat,
		portfolio: portfolio,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.CORSOrigins),
		},
	}

	useMiddlewares(e, opts)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api")
	api.GET("/portfolio", s.handlePortfolio)
	api.GET("/portfolio/:category", s.handlePortfolioCategory)
	api.GET("/knowledge", s.handleKnowledge)

	sessions := api.Group("/chat/sessions")
	sessions.POST("", s.handleCreateSession)
	sessions.GET("/:id", s.handleGetSession)
	sessions.PUT("/:id/input", s.handleUpdateInput)
	sessions.POST("/:id/messages", s.handleSendMessage)
	sessions.DELETE("/:id", s.handleEndSession)
	sessions.GET("/:id/ws", s.handleWebSocket)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type textRequest struct {
	Text string `json:"text"`
}

type turnResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	HTML      string    `json:"html"`
	Excerpts  []string  `json:"excerpts"`
	CreatedAt time.Time `json:"created_at"`
}

type snapshotResponse struct {
	SessionID        string         `json:"session_id"`
	Enabled          bool           `json:"enabled"`
	Phase            string         `json:"phase"`
	AwaitingResponse bool           `json:"awaiting_response"`
	PendingInput     string         `json:"pending_input"`
	Transcript       []turnResponse `json:"transcript"`
}

type errorResponse struct {
	Error    string            `json:"error"`
	Snapshot *snapshotResponse `json:"snapshot,omitempty"`
}

type knowledgeResponse struct {
	Text string `json:"text"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":       "ok",
		"chat_enabled": s.chat.Enabled(),
	})
}

func (s *Server) handlePortfolio(c echo.Context) error {
	return c.JSON(http.StatusOK, s.portfolio.Catalog())
}

func (s *Server) handlePortfolioCategory(c echo.Context) error {
	name := c.Param("category")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	category, ok := s.portfolio.Category(name)
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "category not found"})
	}
	return c.JSON(http.StatusOK, category)
}

func (s *Server) handleKnowledge(c echo.Context) error {
	return c.JSON(http.StatusOK, knowledgeResponse{Text: s.portfolio.Knowledge()})
}

func (s *Server) handleCreateSession(c echo.Context) error {
	snap, err := s.chat.StartSession(c.Request().Context())
	if err != nil {
		return writeError(c, err, nil)
	}
	return c.JSON(http.StatusCreated, toSnapshotResponse(snap))
}

func (s *Server) handleGetSession(c echo.Context) error {
	snap, err := s.chat.GetSnapshot(c.Request().Context(), sessionID(c))
	if err != nil {
		return writeError(c, err, nil)
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snap))
}

func (s *Server) handleUpdateInput(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
	}

	snap, err := s.chat.UpdatePendingInput(c.Request().Context(), sessionID(c), req.Text)
	if err != nil {
		return writeError(c, err, &snap)
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snap))
}

// handleSendMessage answers once the response cycle is over.
func (s *Server) handleSendMessage(c echo.Context) error {
	var req textRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
	}

	snap, err := s.chat.Submit(c.Request().Context(), sessionID(c), req.Text)
	if err != nil {
		return writeError(c, err, &snap)
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snap))
}

func (s *Server) handleEndSession(c echo.Context) error {
	if err := s.chat.EndSession(c.Request().Context(), sessionID(c)); err != nil {
		return writeError(c, err, nil)
	}
	return c.NoContent(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func sessionID(c echo.Context) domain.SessionID {
	return domain.SessionID(c.Param("id"))
}

func toSnapshotResponse(snap domain.Snapshot) snapshotResponse {
	turns := make([]turnResponse, 0, len(snap.Transcript))
	for _, t := range snap.Transcript {
		turns = append(turns, toTurnResponse(t))
	}

	return snapshotResponse{
		SessionID:        string(snap.SessionID),
		Enabled:          snap.Enabled(),
		Phase:            string(snap.Phase),
		AwaitingResponse: snap.AwaitingResponse(),
		PendingInput:     snap.PendingInput,
		Transcript:       turns,
	}
}

func toTurnResponse(t domain.Turn) turnResponse {
	excerpts := []string(t.Excerpts)
	if excerpts == nil {
		excerpts = []string{}
	}

	return turnResponse{
		ID:        string(t.ID),
		Role:      string(t.Role),
		Content:   t.Content,
		HTML:      render.Markdown(t.Content),
		Excerpts:  excerpts,
		CreatedAt: t.CreatedAt,
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionClosed):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBlankInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrChatDisabled), errors.Is(err, domain.ErrTooManySessions):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status code. Rejections carry the unchanged
// session state when there is one.
func writeError(c echo.Context, err error, snap *domain.Snapshot) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		observability.LoggerFromContext(c.Request().Context()).Error("request failed", "error", err)
		return c.JSON(status, errorResponse{Error: "internal server error"})
	}

	resp := errorResponse{Error: err.Error()}
	if snap != nil && snap.SessionID != "" {
		out := toSnapshotResponse(*snap)
		resp.Snapshot = &out
	}
	return c.JSON(status, resp)
}
