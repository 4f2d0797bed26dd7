package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/thedeck/mailroom-backend/internal/errors"
)

// APIResponse is the envelope for successful responses
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the envelope for failed responses
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// PaginatedResponse wraps a list plus its pagination metadata
type PaginatedResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    Meta        `json:"meta"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// Success returns a 200 with data
func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// SuccessWithMessage returns a 200 with data and a human-readable message
func SuccessWithMessage(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Message: message})
}

// Created returns a 201 with the created resource
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// NoContent returns a 204
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Paginated returns a 200 with list data and meta
func Paginated(c echo.Context, data interface{}, total int64, limit, offset int) error {
	return c.JSON(http.StatusOK, PaginatedResponse{
		Success: true,
		Data:    data,
		Meta:    Meta{Total: total, Limit: limit, Offset: offset},
	})
}

func fail(c echo.Context, status int, message, code string) error {
	return c.JSON(status, ErrorResponse{Success: false, Error: message, Code: code})
}

// Error maps err to a status via its error code. Dispatch failures get
// the richer DispatchErrorBody so the caller sees which step broke.
func Error(c echo.Context, err error) error {
	if dispatchErr := apperrors.GetDispatchError(err); dispatchErr != nil {
		return DispatchErrorResponse(c, dispatchErr)
	}
	code := apperrors.GetErrorCode(err)
	return fail(c, getHTTPStatus(code), err.Error(), code)
}

// BadRequest returns a 400
func BadRequest(c echo.Context, message string) error {
	return fail(c, http.StatusBadRequest, message, apperrors.CodeInvalidInput)
}

// NotFound returns a 404
func NotFound(c echo.Context, message string) error {
	return fail(c, http.StatusNotFound, message, apperrors.CodeNotFound)
}

// Conflict returns a 409
func Conflict(c echo.Context, message string) error {
	return fail(c, http.StatusConflict, message, apperrors.CodeDuplicateEntry)
}

// InternalError returns a 500
func InternalError(c echo.Context, message string) error {
	return fail(c, http.StatusInternalServerError, message, apperrors.CodeInternalError)
}

// DispatchErrorBody carries the failing step and client of a dispatch so
// the review UI can report exactly what went wrong
type DispatchErrorBody struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Code     string `json:"code"`
	ClientID uint   `json:"client_id,omitempty"`
	Step     string `json:"step,omitempty"`
}

// DispatchErrorResponse returns a dispatch failure with step context
func DispatchErrorResponse(c echo.Context, dispatchErr *apperrors.DispatchError) error {
	return c.JSON(getHTTPStatus(dispatchErr.Code), DispatchErrorBody{
		Success:  false,
		Error:    dispatchErr.Message,
		Code:     dispatchErr.Code,
		ClientID: dispatchErr.ClientID,
		Step:     dispatchErr.Step,
	})
}

var statusByCode = map[string]int{
	apperrors.CodeNotFound:             http.StatusNotFound,
	apperrors.CodeDuplicateEntry:       http.StatusConflict,
	apperrors.CodeInvalidInput:         http.StatusBadRequest,
	apperrors.CodeNoImagesAssigned:     http.StatusBadRequest,
	apperrors.CodeUnassignedGroup:      http.StatusBadRequest,
	apperrors.CodeNothingToDispatch:    http.StatusBadRequest,
	apperrors.CodeUnassignedItems:      http.StatusConflict,
	apperrors.CodeConfirmationRequired: http.StatusPreconditionRequired,
	apperrors.CodeExtractionFailed:     http.StatusBadGateway,
	apperrors.CodeEmailSendFailed:      http.StatusBadGateway,
	apperrors.CodeUnauthorized:         http.StatusUnauthorized,
	apperrors.CodeForbidden:            http.StatusForbidden,
}

func getHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
