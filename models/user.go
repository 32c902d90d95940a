package models

import (
	"regexp"
	"strings"
	"time"
)

type Role string

const (
	RoleUnassigned Role = "unassigned"
	RoleOwner      Role = "owner"
	RoleCustomer   Role = "customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUnassigned, RoleOwner, RoleCustomer:
		return true
	}
	return false
}

// RoleFromFlags converts the registration form's two checkboxes into a Role.
func RoleFromFlags(isHotelOwner, isCustomer bool) (Role, error) {
	switch {
	case isHotelOwner && isCustomer:
		return "", fieldErr("", ErrConflictingRole)
	case isHotelOwner:
		return RoleOwner, nil
	case isCustomer:
		return RoleCustomer, nil
	default:
		return RoleUnassigned, nil
	}
}

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// ValidPhone reports whether phone is empty or exactly ten digits.
func ValidPhone(phone string) bool {
	return phone == "" || phonePattern.MatchString(phone)
}

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email       string  `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PhoneNumber *string `gorm:"column:phone_number;size:10;uniqueIndex" json:"phone_number,omitempty"`
	FirstName   string  `gorm:"size:150" json:"first_name"`
	LastName    string  `gorm:"size:150" json:"last_name"`
	Password    string  `gorm:"size:255" json:"-"`
	Role        Role    `gorm:"size:16;not null;default:unassigned;index" json:"role"`
	IsSuperuser bool    `gorm:"column:is_superuser;default:false" json:"is_superuser"`
	IsActive    bool    `gorm:"column:is_active;default:true" json:"is_active"`

	Hotels   []Hotel   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Bookings []Booking `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	Groups   []Group   `gorm:"many2many:user_groups" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) String() string { return u.Username }

func (u *User) IsHotelOwner() bool { return u.Role == RoleOwner }

func (u *User) IsCustomer() bool { return u.Role == RoleCustomer }

// FullName falls back to the username when no name is set.
func (u *User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

// Phone returns the phone number or an empty string.
func (u *User) Phone() string {
	if u.PhoneNumber == nil {
		return ""
	}
	return *u.PhoneNumber
}

// Validate checks the record-level rules that do not need the database.
// Uniqueness is checked by the caller against storage.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fieldErr("username", ErrRequiredField)
	}
	if strings.TrimSpace(u.Email) == "" {
		return fieldErr("email", ErrRequiredField)
	}
	if !ValidPhone(u.Phone()) {
		return fieldErr("phone_number", ErrInvalidPhoneFormat)
	}
	if !u.Role.Valid() {
		return fieldErr("role", ErrInvalidRole)
	}
	return nil
}

// TotalBookings counts the loaded bookings.
func (u *User) TotalBookings() int { return len(u.Bookings) }

func (u *User) HasBookings() bool { return len(u.Bookings) > 0 }

// TotalHotels counts the loaded hotels; always zero for non-owners.
func (u *User) TotalHotels() int { return len(u.HotelsOwned()) }

// HotelsOwned is empty unless the user is a hotel owner.
func (u *User) HotelsOwned() []Hotel {
	if !u.IsHotelOwner() {
		return []Hotel{}
	}
	return u.Hotels
}

// IsActiveCustomer reports a customer holding at least one confirmed booking.
func (u *User) IsActiveCustomer() bool {
	if !u.IsCustomer() {
		return false
	}
	for i := range u.Bookings {
		if u.Bookings[i].Status == StatusConfirmed {
			return true
		}
	}
	return false
}
