package utils

import (
	"errors"
	"log"
	"net/http"

	"hotel-management/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{models.ErrInvalidDateRange, http.StatusBadRequest, "invalid_date_range"},
	{models.ErrConflictingRole, http.StatusBadRequest, "conflicting_role"},
	{models.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{models.ErrInvalidPhoneFormat, http.StatusBadRequest, "invalid_phone_format"},
	{models.ErrInvalidPrice, http.StatusBadRequest, "invalid_price"},
	{models.ErrInvalidCapacity, http.StatusBadRequest, "invalid_capacity"},
	{models.ErrRequiredField, http.StatusBadRequest, "required_field"},
	{models.ErrDuplicateEmail, http.StatusConflict, "duplicate_email"},
	{models.ErrDuplicateUsername, http.StatusConflict, "duplicate_username"},
	{models.ErrDuplicatePhone, http.StatusConflict, "duplicate_phone"},
	{models.ErrDuplicateHotelName, http.StatusConflict, "duplicate_hotel_name"},
	{models.ErrNoRoomsAvailable, http.StatusConflict, "no_rooms_available"},
	{models.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
	{models.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{models.ErrNotCustomer, http.StatusForbidden, "not_customer"},
	{models.ErrNotHotelOwner, http.StatusForbidden, "not_hotel_owner"},
	{models.ErrForbidden, http.StatusForbidden, "forbidden"},
	{models.ErrInactiveUser, http.StatusForbidden, "inactive_user"},
	{models.ErrNotFound, http.StatusNotFound, "not_found"},
	{models.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{models.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
}

// ErrorStatus maps a domain error to its HTTP status and error code.
// Unknown errors are internal.
func ErrorStatus(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// RespondError writes err in the error envelope and aborts the request.
func RespondError(c *gin.Context, err error) {
	status, code := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		JSONError(c, status, code, "internal server error", "")
		return
	}

	field := ""
	var fe *models.FieldError
	if errors.As(err, &fe) {
		field = fe.Field
	}
	message := err.Error()
	if fe != nil {
		message = fe.Err.Error()
	}
	JSONError(c, status, code, message, field)
}

// RespondBindError reports the first failing field of a request body.
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			JSONError(c, http.StatusBadRequest, "required_field", models.ErrRequiredField.Error(), fe.Field())
		case phoneTag:
			JSONError(c, http.StatusBadRequest, "invalid_phone_format", models.ErrInvalidPhoneFormat.Error(), fe.Field())
		default:
			JSONError(c, http.StatusBadRequest, "invalid_payload", "invalid value for "+fe.Field(), fe.Field())
		}
		return
	}
	JSONError(c, http.StatusBadRequest, "invalid_payload", "invalid payload", "")
}
