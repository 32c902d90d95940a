package models

import (
	"math"
	"strings"
	"time"
)

type Hotel struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Address        string  `gorm:"type:text" json:"address"`
	City           string  `gorm:"size:100;index" json:"city"`
	Country        string  `gorm:"size:100" json:"country"`
	Description    string  `gorm:"type:text" json:"description,omitempty"`
	OwnerID        uint    `gorm:"column:owner_id;index;not null" json:"owner_id"`
	TotalRooms     int     `gorm:"column:total_rooms;not null" json:"total_rooms"`
	AvailableRooms int     `gorm:"column:available_rooms;not null" json:"available_rooms"`
	PriceNight     float64 `gorm:"column:price_night;type:decimal(10,2);not null" json:"price_night"`
	Amenities      string  `gorm:"type:text" json:"amenities,omitempty"`

	Owner    *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Bookings []Booking `gorm:"foreignKey:HotelID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *Hotel) String() string { return h.Name }

// Validate checks a hotel before it is first stored.
func (h *Hotel) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fieldErr("name", ErrRequiredField)
	}
	if h.TotalRooms <= 0 {
		return fieldErr("total_rooms", ErrInvalidCapacity)
	}
	if h.AvailableRooms < 0 || h.AvailableRooms > h.TotalRooms {
		return fieldErr("available_rooms", ErrCapacityExceeded)
	}
	if h.PriceNight <= 0 {
		return fieldErr("price_night", ErrInvalidPrice)
	}
	return nil
}

func (h *Hotel) HasAvailability() bool { return h.AvailableRooms > 0 }

// BookRoom takes one room off the counter.
func (h *Hotel) BookRoom() error {
	if h.AvailableRooms <= 0 {
		return ErrNoRoomsAvailable
	}
	h.AvailableRooms--
	return nil
}

// ReleaseRoom puts one room back, never beyond TotalRooms.
func (h *Hotel) ReleaseRoom() error {
	if h.AvailableRooms >= h.TotalRooms {
		return ErrCapacityExceeded
	}
	h.AvailableRooms++
	return nil
}

// UpdatePrice accepts prices that stay positive once rounded to cents; the
// hotel is unchanged otherwise.
func (h *Hotel) UpdatePrice(price float64) error {
	rounded := RoundCents(price)
	if rounded <= 0 || math.IsNaN(rounded) || math.IsInf(rounded, 0) {
		return fieldErr("price_night", ErrInvalidPrice)
	}
	h.PriceNight = rounded
	return nil
}

// AmenitiesList splits the comma separated amenities column.
func (h *Hotel) AmenitiesList() []string {
	if strings.TrimSpace(h.Amenities) == "" {
		return []string{}
	}
	parts := strings.Split(h.Amenities, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// RoundCents rounds an amount to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
