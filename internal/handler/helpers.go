package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus/spacehub/internal/handler/middleware"
	"campus/spacehub/internal/service"
	jwtpkg "campus/spacehub/pkg/jwt"
	"campus/spacehub/pkg/response"
)

var ErrNoIdentity = errors.New("identity not found in context")

func getIdentityFromContext(c *gin.Context) (jwtpkg.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return jwtpkg.Identity{}, ErrNoIdentity
	}
	return identity, nil
}

func getUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	identity, err := getIdentityFromContext(c)
	if err != nil {
		return uuid.Nil, err
	}
	return identity.ID, nil
}

// statusFor maps a service error kind onto an HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvalidInput:
		return http.StatusBadRequest
	case service.KindConflict, service.KindInvalidState:
		return http.StatusConflict
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the envelope for err. Unclassified errors are attached to
// the context for the request logger and hidden from the client.
func respondError(c *gin.Context, err error) {
	svcErr, ok := service.AsError(err)
	if !ok {
		_ = c.Error(err)
		response.InternalError(c, "internal server error")
		return
	}
	response.ErrorWithReason(c, statusFor(svcErr.Kind), svcErr.Code, err.Error())
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.ErrorWithReason(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func badQuery(c *gin.Context, name string) {
	response.ErrorWithReason(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid query parameter "+name)
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		badQuery(c, name)
		return 0, false
	}
	return n, true
}

func queryIntPtr(c *gin.Context, name string) (*int, bool) {
	if strings.TrimSpace(c.Query(name)) == "" {
		return nil, true
	}
	n, ok := queryInt(c, name)
	if !ok {
		return nil, false
	}
	return &n, true
}

func queryUUIDPtr(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		badQuery(c, name)
		return nil, false
	}
	return &id, true
}

// queryList splits a comma-separated query parameter; blanks are dropped.
func queryList(c *gin.Context, name string) []string {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// queryTime accepts RFC 3339 instants or plain YYYY-MM-DD dates (midnight UTC).
func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	badQuery(c, name)
	return nil, false
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorWithReason(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body: "+err.Error())
		return false
	}
	return true
}
