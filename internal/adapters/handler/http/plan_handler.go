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

type PlanHandler struct {
	service *services.PlanService
}

func NewPlanHandler(service *services.PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.PUT("/plan", h.Save)
	router.GET("/plan/:week", h.Get)
	router.GET("/plans", h.List)
	router.PATCH("/status", h.UpdateStatus)
}

type savePlanRequest struct {
	Week  json.RawMessage `json:"week"`
	Items json.RawMessage `json:"items"`
}

func (h *PlanHandler) Save(c *gin.Context) {
	var req savePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
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

	var items []domain.WorkoutItem
	if err := json.Unmarshal(req.Items, &items); err != nil || items == nil {
		respondError(c, http.StatusBadRequest, "Items array is required")
		return
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	if _, err := h.service.Save(c.Request.Context(), weekID, items); err != nil {
		log.Printf("[PLAN] Failed to save plan %s: %v", weekID, err)
		respondFailure(c, "Failed to save plan", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) Get(c *gin.Context) {
	weekID, ok := weekParam(c)
	if !ok {
		return
	}

	plan, err := h.service.Get(c.Request.Context(), weekID)
	if err != nil {
		log.Printf("[PLAN] Failed to get plan %s: %v", weekID, err)
		respondFailure(c, "Failed to get plan", err)
		return
	}

	// A week without a plan is a success with null data.
	respondOK(c, plan)
}

func (h *PlanHandler) List(c *gin.Context) {
	weeks, err := h.service.ListWeeks(c.Request.Context())
	if err != nil {
		log.Printf("[PLAN] Failed to list plans: %v", err)
		respondFailure(c, "Failed to list plans", err)
		return
	}
	respondOK(c, weeks)
}

type updateStatusRequest struct {
	Week   string `json:"week"`
	ItemID string `json:"itemId"`
	Status string `json:"status"`
}

func (h *PlanHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Week == "" {
		respondError(c, http.StatusBadRequest, "Week is required")
		return
	}
	if week.Validate(req.Week) != nil {
		respondError(c, http.StatusBadRequest, invalidWeekMessage)
		return
	}
	if req.ItemID == "" {
		respondError(c, http.StatusBadRequest, "Item ID is required")
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Valid status is required (pending, done, missed)")
		return
	}

	if _, err := h.service.UpdateStatus(c.Request.Context(), req.Week, req.ItemID, status); err != nil {
		log.Printf("[PLAN] Failed to update status %s/%s: %v", req.Week, req.ItemID, err)
		respondFailure(c, "Failed to update status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated successfully"})
}
