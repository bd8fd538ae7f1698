package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-sched-api/internal/models"
	"github.com/noah-isme/campus-sched-api/internal/service"
	"github.com/noah-isme/campus-sched-api/pkg/response"
)

// MasterDataHandler exposes read-only master-data listings.
type MasterDataHandler struct {
	service *service.MasterDataService
}

// NewMasterDataHandler constructs the handler.
func NewMasterDataHandler(svc *service.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{service: svc}
}

// Rooms godoc
// @Summary List rooms
// @Tags MasterData
// @Produce json
// @Param active query bool false "Filter by active flag"
// @Param kind query string false "Filter by room kind"
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *MasterDataHandler) Rooms(c *gin.Context) {
	filter := models.RoomFilter{
		Kind:      models.RoomKind(c.Query("kind")),
		Page:      intQuery(c, "page", 1),
		PageSize:  intQuery(c, "pageSize", 20),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}
	rooms, pagination, err := h.service.ListRooms(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, pagination)
}

// Teachers godoc
// @Summary List teachers
// @Tags MasterData
// @Produce json
// @Param search query string false "Search by name"
// @Param active query bool false "Filter by active flag"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *MasterDataHandler) Teachers(c *gin.Context) {
	filter := models.TeacherFilter{
		Search:    c.Query("search"),
		Page:      intQuery(c, "page", 1),
		PageSize:  intQuery(c, "pageSize", 20),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}
	teachers, pagination, err := h.service.ListTeachers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

// Timeslots godoc
// @Summary List timeslots in grid order
// @Tags MasterData
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timeslots [get]
func (h *MasterDataHandler) Timeslots(c *gin.Context) {
	slots, err := h.service.ListTimeslots(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
