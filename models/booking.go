package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCanceled  BookingStatus = "canceled"
)

const DateLayout = "2006-01-02"

type Booking struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CustomerID uint           `gorm:"column:customer_id;index;not null" json:"customer_id"`
	HotelID    uint           `gorm:"column:hotel_id;index;not null" json:"hotel_id"`
	CheckIn    datatypes.Date `gorm:"column:check_in;not null" json:"check_in"`
	CheckOut   datatypes.Date `gorm:"column:check_out;not null" json:"check_out"`
	TotalPrice *float64       `gorm:"column:total_price;type:decimal(10,2)" json:"total_price"`
	Status     BookingStatus  `gorm:"column:status;size:10;not null;default:pending;index" json:"status"`

	Customer *User  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Hotel    *Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func (b *Booking) CheckInDay() time.Time  { return Day(time.Time(b.CheckIn)) }
func (b *Booking) CheckOutDay() time.Time { return Day(time.Time(b.CheckOut)) }

func (b *Booking) SetDates(checkIn, checkOut time.Time) {
	b.CheckIn = datatypes.Date(Day(checkIn))
	b.CheckOut = datatypes.Date(Day(checkOut))
}

func (b *Booking) String() string {
	customer, hotel := "", ""
	if b.Customer != nil {
		customer = b.Customer.Username
	}
	if b.Hotel != nil {
		hotel = b.Hotel.Name
	}
	return fmt.Sprintf("%s - %s (%s to %s)", customer, hotel,
		b.CheckInDay().Format(DateLayout), b.CheckOutDay().Format(DateLayout))
}

// Validate enforces check_in < check_out.
func (b *Booking) Validate() error {
	if !b.CheckInDay().Before(b.CheckOutDay()) {
		return fieldErr("check_out", ErrInvalidDateRange)
	}
	return nil
}

// Nights is the number of calendar days between check-in and check-out.
// It can be zero or negative for an unvalidated booking.
func (b *Booking) Nights() int {
	return int(b.CheckOutDay().Sub(b.CheckInDay()).Hours() / 24)
}

// ComputeTotalPrice prices the stay at the given nightly rate.
func (b *Booking) ComputeTotalPrice(priceNight float64) float64 {
	n := b.Nights()
	if n <= 0 {
		return 0
	}
	return RoundCents(float64(n) * priceNight)
}

// Price returns the frozen total when one was stored, otherwise the live
// computation at priceNight.
func (b *Booking) Price(priceNight float64) float64 {
	if b.TotalPrice != nil {
		return *b.TotalPrice
	}
	return b.ComputeTotalPrice(priceNight)
}

// FreezePrice stores the total at priceNight. Only confirmed bookings carry a
// frozen price.
func (b *Booking) FreezePrice(priceNight float64) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	total := b.ComputeTotalPrice(priceNight)
	b.TotalPrice = &total
	return nil
}

// Confirm moves a pending booking to confirmed and reports whether the status
// changed. Any other status is left alone.
func (b *Booking) Confirm() bool {
	if b.Status != StatusPending {
		return false
	}
	b.Status = StatusConfirmed
	return true
}

// Cancel moves any non-canceled booking to canceled and reports whether the
// status changed.
func (b *Booking) Cancel() bool {
	if b.Status == StatusCanceled {
		return false
	}
	b.Status = StatusCanceled
	return true
}

func (b *Booking) IsActive(today time.Time) bool {
	return b.Status == StatusConfirmed && !b.CheckOutDay().Before(Day(today))
}

func (b *Booking) HasCheckedIn(today time.Time) bool {
	return !Day(today).Before(b.CheckInDay())
}

func (b *Booking) HasCheckedOut(today time.Time) bool {
	return Day(today).After(b.CheckOutDay())
}
