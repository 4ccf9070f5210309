package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sandevgo/animus/internal/core"
	"github.com/sandevgo/animus/internal/service/chat"
	"github.com/sandevgo/animus/pkg/log"
)

type handler struct {
	svc *chat.Service
}

func newHandler(svc *chat.Service) *handler {
	return &handler{svc: svc}
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID int64  `json:"conversation_id"`
}

type chatResponse struct {
	ConversationID      int64                `json:"conversation_id"`
	MessageID           int64                `json:"message_id"`
	Response            string               `json:"response"`
	ConsciousnessScores core.DimensionScores `json:"consciousness_scores"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": core.AnimusName, "status": "ok", "version": core.AnimusVersion})
}

func (h *handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Turn(c.Request.Context(), chat.TurnRequest{
		ConversationID: req.ConversationID,
		Message:        req.Message,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		ConversationID:      result.ConversationID,
		MessageID:           result.MessageID,
		Response:            result.Response,
		ConsciousnessScores: result.Scores,
	})
}

func (h *handler) messages(c *gin.Context) {
	conversationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}

	conversation, err := h.svc.Conversation(c.Request.Context(), conversationID)
	if err != nil {
		writeError(c, err)
		return
	}

	messages, err := h.svc.History(c.Request.Context(), conversationID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if messages == nil {
		messages = []core.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"conversation": conversation, "messages": messages})
}

func (h *handler) metric(c *gin.Context) {
	messageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	metric, err := h.svc.Metric(c.Request.Context(), messageID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, metric)
}

func (h *handler) boundaries(c *gin.Context) {
	personalityID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid personality id"})
		return
	}

	boundaries, err := h.svc.Boundaries(c.Request.Context(), personalityID)
	if err != nil {
		writeError(c, err)
		return
	}
	if boundaries == nil {
		boundaries = []core.EthicalBoundary{}
	}

	c.JSON(http.StatusOK, gin.H{"personality_id": personalityID, "boundaries": boundaries})
}

func writeError(c *gin.Context, err error) {
	log.FromCtx(c.Request.Context()).Error().Err(err).Msg("request failed")

	var validation *core.ValidationError
	var upstream *core.UpstreamError
	var persistence *core.PersistenceError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &upstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "completion service unavailable"})
	case errors.As(err, &persistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
