package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus/spacehub/internal/model"
	"campus/spacehub/internal/service"
	"campus/spacehub/pkg/response"
)

type ReservationHandler struct {
	reservationService service.ReservationService
}

func NewReservationHandler(reservationService service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

type CreateReservationRequest struct {
	SpaceID   string    `json:"space_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Type      string    `json:"type"`
	GroupSize *int      `json:"group_size"`
	Notes     string    `json:"notes"`
}

// Create books a space for the caller.
func (h *ReservationHandler) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req CreateReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	spaceID, err := uuid.Parse(req.SpaceID)
	if err != nil {
		response.ErrorWithReason(c, 400, "VALIDATION_ERROR", "invalid space_id")
		return
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), service.CreateReservationInput{
		UserID:    userID,
		SpaceID:   spaceID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Kind:      model.ReservationKind(req.Type),
		GroupSize: req.GroupSize,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, reservation)
}

// List returns the caller's reservations, newest start first.
func (h *ReservationHandler) List(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	startDate, ok := queryTime(c, "start_date")
	if !ok {
		return
	}
	endDate, ok := queryTime(c, "end_date")
	if !ok {
		return
	}

	result, err := h.reservationService.List(c.Request.Context(), userID, service.ListReservationsInput{
		Page:      page,
		Limit:     limit,
		Status:    c.Query("status"),
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Page(c, result.Items, response.PageMeta{Page: result.Page, Limit: result.Limit, Total: result.Total})
}

func (h *ReservationHandler) Get(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := h.reservationService.Get(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, reservation)
}

// Cancel cancels one of the caller's reservations.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := h.reservationService.Cancel(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, reservation)
}

// RemoveParticipant lets the organizer drop a member from a group reservation.
func (h *ReservationHandler) RemoveParticipant(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	participantID, ok := parseUUIDParam(c, "participantId")
	if !ok {
		return
	}

	reservation, err := h.reservationService.RemoveParticipant(c.Request.Context(), id, participantID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, reservation)
}
