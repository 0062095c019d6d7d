package handler

import (
	"github.com/gin-gonic/gin"

	"campus/spacehub/internal/service"
	"campus/spacehub/pkg/response"
)

// SpaceHandler serves the public space catalogue and availability views.
type SpaceHandler struct {
	spaceService        service.SpaceService
	availabilityService service.AvailabilityService
}

func NewSpaceHandler(spaceService service.SpaceService, availabilityService service.AvailabilityService) *SpaceHandler {
	return &SpaceHandler{
		spaceService:        spaceService,
		availabilityService: availabilityService,
	}
}

func (h *SpaceHandler) List(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	minCapacity, ok := queryIntPtr(c, "min_capacity")
	if !ok {
		return
	}
	floorID, ok := queryUUIDPtr(c, "floor")
	if !ok {
		return
	}

	result, err := h.spaceService.List(c.Request.Context(), service.ListSpacesInput{
		Page:        page,
		Limit:       limit,
		Type:        c.Query("type"),
		FloorID:     floorID,
		MinCapacity: minCapacity,
		Search:      c.Query("search"),
		Equipment:   queryList(c, "equipment"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Page(c, result.Items, response.PageMeta{Page: result.Page, Limit: result.Limit, Total: result.Total})
}

func (h *SpaceHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	space, err := h.spaceService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, space)
}

// Availability reports every space's status at ?datetime= (RFC 3339), default now.
func (h *SpaceHandler) Availability(c *gin.Context) {
	at, err := service.ParseDatetime(c.Query("datetime"))
	if err != nil {
		respondError(c, err)
		return
	}

	snapshot, err := h.availabilityService.Snapshot(c.Request.Context(), at)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, snapshot)
}

// DayAvailability returns the hourly grid of one space for ?date=YYYY-MM-DD.
func (h *SpaceHandler) DayAvailability(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	grid, err := h.availabilityService.SpaceDay(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, grid)
}
