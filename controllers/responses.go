package controllers

import (
	"time"

	"hotel-management/models"
	"hotel-management/services"
)

type userResponse struct {
	ID          uint        `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phone_number,omitempty"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	FullName    string      `json:"full_name"`
	Role        models.Role `json:"role"`
	IsSuperuser bool        `json:"is_superuser"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		PhoneNumber: u.Phone(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}

type profileResponse struct {
	userResponse
	TotalBookings    int64    `json:"total_bookings"`
	TotalHotels      int64    `json:"total_hotels"`
	HasBookings      bool     `json:"has_bookings"`
	IsActiveCustomer bool     `json:"is_active_customer"`
	Groups           []string `json:"groups"`
}

func toProfileResponse(p *services.Profile, groups []string) profileResponse {
	if groups == nil {
		groups = []string{}
	}
	return profileResponse{
		userResponse:     toUserResponse(p.User),
		TotalBookings:    p.TotalBookings,
		TotalHotels:      p.TotalHotels,
		HasBookings:      p.HasBookings(),
		IsActiveCustomer: p.IsActiveCustomer,
		Groups:           groups,
	}
}

type hotelResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	Country         string    `json:"country"`
	Description     string    `json:"description"`
	Amenities       string    `json:"amenities"`
	AmenitiesList   []string  `json:"amenities_list"`
	OwnerID         uint      `json:"owner_id"`
	Owner           string    `json:"owner,omitempty"`
	TotalRooms      int       `json:"total_rooms"`
	AvailableRooms  int       `json:"available_rooms"`
	HasAvailability bool      `json:"has_availability"`
	PriceNight      float64   `json:"price_night"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toHotelResponse(h *models.Hotel) hotelResponse {
	r := hotelResponse{
		ID:              h.ID,
		Name:            h.Name,
		Address:         h.Address,
		City:            h.City,
		Country:         h.Country,
		Description:     h.Description,
		Amenities:       h.Amenities,
		AmenitiesList:   h.AmenitiesList(),
		OwnerID:         h.OwnerID,
		TotalRooms:      h.TotalRooms,
		AvailableRooms:  h.AvailableRooms,
		HasAvailability: h.HasAvailability(),
		PriceNight:      h.PriceNight,
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       h.UpdatedAt,
	}
	if h.Owner != nil {
		r.Owner = h.Owner.Username
	}
	return r
}

type bookingResponse struct {
	ID            uint                 `json:"id"`
	Display       string               `json:"display"`
	CustomerID    uint                 `json:"customer_id"`
	Customer      string               `json:"customer,omitempty"`
	HotelID       uint                 `json:"hotel_id"`
	Hotel         string               `json:"hotel,omitempty"`
	CheckIn       string               `json:"check_in"`
	CheckOut      string               `json:"check_out"`
	Nights        int                  `json:"nights"`
	Status        models.BookingStatus `json:"status"`
	TotalPrice    float64              `json:"total_price"`
	PriceFrozen   bool                 `json:"price_frozen"`
	IsActive      bool                 `json:"is_active"`
	HasCheckedIn  bool                 `json:"has_checked_in"`
	HasCheckedOut bool                 `json:"has_checked_out"`
	CreatedAt     time.Time            `json:"created_at"`
}

func toBookingResponse(b *models.Booking, today time.Time) bookingResponse {
	r := bookingResponse{
		ID:            b.ID,
		Display:       b.String(),
		CustomerID:    b.CustomerID,
		HotelID:       b.HotelID,
		CheckIn:       b.CheckInDay().Format(models.DateLayout),
		CheckOut:      b.CheckOutDay().Format(models.DateLayout),
		Nights:        b.Nights(),
		Status:        b.Status,
		PriceFrozen:   b.TotalPrice != nil,
		IsActive:      b.IsActive(today),
		HasCheckedIn:  b.HasCheckedIn(today),
		HasCheckedOut: b.HasCheckedOut(today),
		CreatedAt:     b.CreatedAt,
	}
	if b.Customer != nil {
		r.Customer = b.Customer.Username
	}
	if b.Hotel != nil {
		r.Hotel = b.Hotel.Name
		r.TotalPrice = b.Price(b.Hotel.PriceNight)
	} else if b.TotalPrice != nil {
		r.TotalPrice = *b.TotalPrice
	}
	return r
}
