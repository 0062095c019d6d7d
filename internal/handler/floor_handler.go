package handler

import (
	"github.com/gin-gonic/gin"

	"campus/spacehub/internal/service"
	"campus/spacehub/pkg/response"
)

// FloorHandler serves the public floor directory.
type FloorHandler struct {
	floorService service.FloorService
}

func NewFloorHandler(floorService service.FloorService) *FloorHandler {
	return &FloorHandler{floorService: floorService}
}

// List returns floors, optionally filtered by ?building=.
func (h *FloorHandler) List(c *gin.Context) {
	floors, err := h.floorService.List(c.Request.Context(), c.Query("building"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Page(c, floors, response.PageMeta{Page: 1, Limit: len(floors), Total: int64(len(floors))})
}

func (h *FloorHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	floor, err := h.floorService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, floor)
}
