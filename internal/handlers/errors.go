package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"homecook-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidProductID),
		errors.Is(err, services.ErrInvalidProduct),
		errors.Is(err, services.ErrInvalidOrderID):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrEmptyCart):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status its kind maps to. Internal errors
// are attached to the context for the request logger and not echoed back.
func respondError(c *gin.Context, err error, title string) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		c.Error(err)
		message = "Please try again later"
	}
	c.JSON(status, ErrorResponse{
		Error:   title,
		Message: message,
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request body",
		Message: err.Error(),
	})
}

// pagination reads limit and offset query parameters, defaulting to 20 and 0.
func pagination(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
