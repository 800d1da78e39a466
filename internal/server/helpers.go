package server

import (
	"errors"
	"strings"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already wrote the HTTP error
// response. Handlers return nil when they see it.
var errResponseWritten = errors.New("response already written")

const maxPaginationLimit = 100

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads limit/offset from the query string, clamping the
// limit to maxPaginationLimit and negative offsets to zero.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parseID reads a positive integer route parameter, writing a 400 response
// itself on failure.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam turns a route parameter name into readable error text.
func humanizeParam(param string) string {
	return strings.ReplaceAll(param, "_", " ") + " parameter"
}

// statusForCode maps application error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodePermissionDenied:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err using the status derived from its error code.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForCode(models.ErrorCode(err)), err)
}

// actingUserID returns the authenticated user id set by the auth middleware.
func actingUserID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals("userID").(uint)
	if !ok || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
		return 0, errResponseWritten
	}
	return id, nil
}

// optionalProfileID returns the acting profile id on routes behind
// OptionalAuth, or zero for anonymous requests.
func optionalProfileID(c *fiber.Ctx) uint {
	id, _ := c.Locals("profileID").(uint)
	return id
}

// actingProfileID returns the authenticated profile id from the token's
// pid claim.
func actingProfileID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals("profileID").(uint)
	if !ok || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Token is missing profile identity"))
		return 0, errResponseWritten
	}
	return id, nil
}
