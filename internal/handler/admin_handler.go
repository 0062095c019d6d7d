package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus/spacehub/internal/model"
	"campus/spacehub/internal/service"
	"campus/spacehub/pkg/response"
)

type AdminHandler struct {
	reservationService service.ReservationService
	spaceService       service.SpaceService
	floorService       service.FloorService
	analyticsService   service.AnalyticsService
}

func NewAdminHandler(
	reservationService service.ReservationService,
	spaceService service.SpaceService,
	floorService service.FloorService,
	analyticsService service.AnalyticsService,
) *AdminHandler {
	return &AdminHandler{
		reservationService: reservationService,
		spaceService:       spaceService,
		floorService:       floorService,
		analyticsService:   analyticsService,
	}
}

// Stats returns space and booking counters for the dashboard.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.reservationService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, stats)
}

// Utilization reports per-space booking volume against the registry average.
func (h *AdminHandler) Utilization(c *gin.Context) {
	report, err := h.analyticsService.Utilization(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, report)
}

// ListReservations returns the full reservation ledger.
func (h *AdminHandler) ListReservations(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	spaceID, ok := queryUUIDPtr(c, "space_id")
	if !ok {
		return
	}
	userID, ok := queryUUIDPtr(c, "user_id")
	if !ok {
		return
	}
	dateFrom, ok := queryTime(c, "date_from")
	if !ok {
		return
	}
	dateTo, ok := queryTime(c, "date_to")
	if !ok {
		return
	}

	result, err := h.reservationService.AdminList(c.Request.Context(), service.AdminListInput{
		Page:     page,
		Limit:    limit,
		Status:   c.Query("status"),
		SpaceID:  spaceID,
		UserID:   userID,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Page(c, result.Items, response.PageMeta{Page: result.Page, Limit: result.Limit, Total: result.Total})
}

func (h *AdminHandler) GetReservation(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	details, err := h.reservationService.AdminGet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, details)
}

type AdminCancelRequest struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *AdminHandler) CancelReservation(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req AdminCancelRequest
	if !bindJSON(c, &req) {
		return
	}

	reservation, err := h.reservationService.AdminCancel(c.Request.Context(), id, req.Reason, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, reservation)
}

type CreateSpaceRequest struct {
	Name        string     `json:"name" binding:"required"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Capacity    int        `json:"capacity" binding:"required"`
	MinCapacity int        `json:"min_capacity"`
	FloorID     *uuid.UUID `json:"floor_id"`
	Equipment   []string   `json:"equipment"`
}

func (h *AdminHandler) CreateSpace(c *gin.Context) {
	var req CreateSpaceRequest
	if !bindJSON(c, &req) {
		return
	}

	space, err := h.spaceService.Create(c.Request.Context(), service.SpaceInput{
		Name:        req.Name,
		Type:        model.SpaceType(req.Type),
		Description: req.Description,
		Capacity:    req.Capacity,
		MinCapacity: req.MinCapacity,
		FloorID:     req.FloorID,
		Equipment:   req.Equipment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, space)
}

type UpdateSpaceRequest struct {
	Name        *string    `json:"name"`
	Type        *string    `json:"type"`
	Description *string    `json:"description"`
	Capacity    *int       `json:"capacity"`
	MinCapacity *int       `json:"min_capacity"`
	FloorID     *uuid.UUID `json:"floor_id"`
	Equipment   *[]string  `json:"equipment"`
}

func (h *AdminHandler) UpdateSpace(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateSpaceRequest
	if !bindJSON(c, &req) {
		return
	}

	update := service.SpaceUpdate{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		MinCapacity: req.MinCapacity,
		FloorID:     req.FloorID,
		Equipment:   req.Equipment,
	}
	if req.Type != nil {
		t := model.SpaceType(*req.Type)
		update.Type = &t
	}

	space, err := h.spaceService.Update(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, space)
}

type MarkUnavailableRequest struct {
	Reason    string     `json:"reason"`
	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date"`
}

// MarkUnavailable opens a maintenance window on a space.
func (h *AdminHandler) MarkUnavailable(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req MarkUnavailableRequest
	if !bindJSON(c, &req) {
		return
	}

	space, err := h.spaceService.MarkUnavailable(c.Request.Context(), id, req.Reason, req.StartDate, req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, space)
}

func (h *AdminHandler) MarkAvailable(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	space, err := h.spaceService.MarkAvailable(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, space)
}

type CreateFloorRequest struct {
	Name     string `json:"name" binding:"required"`
	Building string `json:"building" binding:"required"`
	SVGPath  string `json:"svg_path"`
}

func (h *AdminHandler) CreateFloor(c *gin.Context) {
	var req CreateFloorRequest
	if !bindJSON(c, &req) {
		return
	}

	floor, err := h.floorService.Create(c.Request.Context(), service.FloorInput{
		Name:     req.Name,
		Building: req.Building,
		SVGPath:  req.SVGPath,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, floor)
}

type UpdateFloorRequest struct {
	Name     *string `json:"name"`
	Building *string `json:"building"`
	SVGPath  *string `json:"svg_path"`
}

func (h *AdminHandler) UpdateFloor(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateFloorRequest
	if !bindJSON(c, &req) {
		return
	}

	floor, err := h.floorService.Update(c.Request.Context(), id, service.FloorUpdate{
		Name:     req.Name,
		Building: req.Building,
		SVGPath:  req.SVGPath,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, floor)
}
