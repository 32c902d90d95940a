package models

import "errors"

var (
	ErrInvalidDateRange   = errors.New("check-in date must be before check-out date")
	ErrConflictingRole    = errors.New("a user cannot be both a hotel owner and a customer at the same time")
	ErrInvalidRole        = errors.New("unknown role")
	ErrInvalidPhoneFormat = errors.New("phone number must be 10 digits")
	ErrDuplicateEmail     = errors.New("this email is already registered")
	ErrDuplicateUsername  = errors.New("this username is already taken")
	ErrDuplicatePhone     = errors.New("this phone number is already registered")
	ErrDuplicateHotelName = errors.New("a hotel with this name already exists")
	ErrNoRoomsAvailable   = errors.New("no rooms available")
	ErrCapacityExceeded   = errors.New("available rooms cannot exceed total rooms")
	ErrInvalidPrice       = errors.New("price per night must be positive")
	ErrInvalidCapacity    = errors.New("total rooms must be positive")
	ErrInvalidTransition  = errors.New("booking status does not allow this operation")
	ErrNotCustomer        = errors.New("only customers can book hotels")
	ErrNotHotelOwner      = errors.New("only hotel owners can manage hotels")
	ErrForbidden          = errors.New("permission denied")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("account is deactivated")
	ErrRequiredField      = errors.New("this field is required")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// FieldError ties a validation error to the input field that caused it.
// An empty Field means the error applies to the record as a whole.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
