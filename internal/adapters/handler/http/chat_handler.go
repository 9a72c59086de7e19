package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/services"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

type ChatHandler struct {
	service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/chat", h.SendMessage)
}

// Fields stay raw so a wrong JSON type can be reported per field.
type chatRequest struct {
	Messages json.RawMessage `json:"messages"`
	Week     json.RawMessage `json:"week"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var messages []domain.ChatMessage
	if err := json.Unmarshal(req.Messages, &messages); err != nil || len(messages) == 0 {
		respondError(c, http.StatusBadRequest, "Messages array is required")
		return
	}

	var weekID string
	if err := json.Unmarshal(req.Week, &weekID); err != nil || weekID == "" {
		respondError(c, http.StatusBadRequest, "Week is required")
		return
	}
	if week.Validate(weekID) != nil {
		respondError(c, http.StatusBadRequest, invalidWeekMessage)
		return
	}

	if messages[len(messages)-1].Role != domain.RoleUser {
		respondError(c, http.StatusBadRequest, "Last message must be from user")
		return
	}

	reply, err := h.service.SendMessage(c.Request.Context(), messages, weekID)
	if err != nil {
		log.Printf("[CHAT] Failed to process message for week %s: %v", weekID, err)
		respondFailure(c, "Failed to process message", err)
		return
	}

	respondOK(c, reply)
}
