package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	commentdomain "github.com/jimmyhealer/shovel-hero/internal/comment/domain"
	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	fulfillmentdomain "github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
	identitydomain "github.com/jimmyhealer/shovel-hero/internal/identity/domain"
)

// APIError is the wire-level error envelope.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return e.Code }

var (
	ErrUnauthorized = &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "authentication required"}
	ErrForbidden    = &APIError{Status: http.StatusForbidden, Code: "forbidden", Message: "insufficient permissions"}
	ErrNotFound     = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrRateLimited  = &APIError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests"}
)

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "request body could not be parsed"}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Field: field, Message: message}
}

// AbortWithError maps service errors onto the wire envelope. Unknown errors
// become opaque 500s; the request logger carries the cause.
func AbortWithError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
}

func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, demanddomain.ErrNotFound),
		errors.Is(err, fulfillmentdomain.ErrNotFound),
		errors.Is(err, commentdomain.ErrNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	case errors.Is(err, identitydomain.ErrInvalidCredentials),
		errors.Is(err, identitydomain.ErrNotFound):
		return &APIError{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "email or password is incorrect"}
	case errors.Is(err, demanddomain.ErrInvalidType):
		return newValidationError("type", "invalid_type", "unknown demand type")
	case errors.Is(err, demanddomain.ErrInvalidRegion):
		return newValidationError("region", "invalid_region", "region is required")
	case errors.Is(err, demanddomain.ErrInvalidDescription):
		return newValidationError("description", "invalid_description", "description is required")
	case errors.Is(err, demanddomain.ErrInvalidContact):
		return newValidationError("contact", "invalid_contact", "contact name and phone are required")
	case errors.Is(err, demanddomain.ErrInvalidHumanNeed):
		return newValidationError("humanNeed", "invalid_human_need", "required headcount must be positive")
	case errors.Is(err, demanddomain.ErrInvalidSupplyItems):
		return newValidationError("supplyItems", "invalid_supply_items", "supply items need a name, unit and positive quantity")
	case errors.Is(err, fulfillmentdomain.ErrInvalidDemand),
		errors.Is(err, commentdomain.ErrInvalidDemand):
		return newValidationError("demandId", "invalid_demand", "referenced demand does not exist")
	case errors.Is(err, fulfillmentdomain.ErrDemandMismatch):
		return newValidationError("demandId", "demand_type_mismatch", "demand does not accept this fulfillment type")
	case errors.Is(err, fulfillmentdomain.ErrInvalidSubmitter):
		return newValidationError("name", "invalid_submitter", "submitter name and phone are required")
	case errors.Is(err, fulfillmentdomain.ErrInvalidItem):
		return newValidationError("itemName", "invalid_item", "item name and unit are required")
	case errors.Is(err, fulfillmentdomain.ErrInvalidQuantity):
		return newValidationError("quantity", "invalid_quantity", "quantity must be a positive number")
	case errors.Is(err, commentdomain.ErrInvalidAuthor):
		return newValidationError("authorName", "invalid_author", "author name is required")
	case errors.Is(err, commentdomain.ErrInvalidContent):
		return newValidationError("content", "invalid_content", "content is required and bounded")
	case errors.Is(err, commentdomain.ErrAlreadyRemoved):
		return &APIError{Status: http.StatusConflict, Code: "already_removed", Message: "comment was already removed"}
	}

	return &APIError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "something went wrong"}
}
