package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/musule-planner/internal/core/services"
)

type SummaryHandler struct {
	service *services.SummaryService
}

func NewSummaryHandler(service *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

func (h *SummaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/summary/:week", h.Get)
	router.GET("/summary/:week/markdown", h.Markdown)
	router.GET("/summary/:week/html", h.HTML)
}

func (h *SummaryHandler) Get(c *gin.Context) {
	weekID, ok := weekParam(c)
	if !ok {
		return
	}

	summary, err := h.service.Get(c.Request.Context(), weekID)
	if err != nil {
		log.Printf("[SUMMARY] Failed to get summary %s: %v", weekID, err)
		respondFailure(c, "Failed to get summary", err)
		return
	}

	respondOK(c, summary)
}

func (h *SummaryHandler) Markdown(c *gin.Context) {
	weekID, ok := weekParam(c)
	if !ok {
		return
	}

	md, err := h.service.Markdown(c.Request.Context(), weekID)
	if err != nil {
		log.Printf("[SUMMARY] Failed to render markdown %s: %v", weekID, err)
		respondFailure(c, "Failed to get summary", err)
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

func (h *SummaryHandler) HTML(c *gin.Context) {
	weekID, ok := weekParam(c)
	if !ok {
		return
	}

	html, err := h.service.HTML(c.Request.Context(), weekID)
	if err != nil {
		log.Printf("[SUMMARY] Failed to render html %s: %v", weekID, err)
		respondFailure(c, "Failed to get summary", err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
