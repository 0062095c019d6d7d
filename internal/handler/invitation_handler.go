package handler

import (
	"github.com/gin-gonic/gin"

	"campus/spacehub/internal/service"
	"campus/spacehub/pkg/response"
)

type InvitationHandler struct {
	invitationService service.InvitationService
}

func NewInvitationHandler(invitationService service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// Validate is public so invitees can preview a reservation before signing in.
func (h *InvitationHandler) Validate(c *gin.Context) {
	snapshot, err := h.invitationService.Validate(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, snapshot)
}

func (h *InvitationHandler) Join(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	reservation, err := h.invitationService.Join(c.Request.Context(), c.Param("token"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, reservation)
}
