package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

type WeekHandler struct {
	loc *time.Location
	now func() time.Time
}

func NewWeekHandler(loc *time.Location) *WeekHandler {
	return &WeekHandler{loc: loc, now: time.Now}
}

func (h *WeekHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/week/current", h.Current)
}

type weekResponse struct {
	Week      string `json:"week"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (h *WeekHandler) Current(c *gin.Context) {
	id := week.Current(h.now(), h.loc)

	// Current always yields a valid identifier.
	r, _ := week.Dates(id)

	respondOK(c, weekResponse{
		Week:      id,
		StartDate: r.StartDate(),
		EndDate:   r.EndDate(),
	})
}
