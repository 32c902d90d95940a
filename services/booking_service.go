// services/booking_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"hotel-management/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService wraps *gorm.DB for the booking lifecycle. Every operation
// that moves a room in or out of a hotel runs in the same transaction as the
// booking row it belongs to.
type BookingService struct {
	DB     *gorm.DB
	Hotels *HotelService
}

func NewBookingService(db *gorm.DB, hotels *HotelService) *BookingService {
	return &BookingService{DB: db, Hotels: hotels}
}

type BookingInput struct {
	HotelID  uint
	CheckIn  time.Time
	CheckOut time.Time
}

func canViewBooking(actor *models.User, b *models.Booking) bool {
	if actor.IsSuperuser || b.CustomerID == actor.ID {
		return true
	}
	return actor.IsHotelOwner() && b.Hotel != nil && b.Hotel.OwnerID == actor.ID
}

func canChangeBooking(actor *models.User, b *models.Booking) bool {
	return actor.IsSuperuser || b.CustomerID == actor.ID
}

func (s *BookingService) load(db *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := db.Preload("Customer").Preload("Hotel").First(&booking, id).Error; err != nil {
		return nil, notFound(err, "booking")
	}
	return &booking, nil
}

// Create books one room for customer. The room is taken and the booking row
// inserted in one transaction; when no room is left nothing is written.
func (s *BookingService) Create(ctx context.Context, customer *models.User, in BookingInput) (*models.Booking, error) {
	if !customer.IsCustomer() {
		return nil, models.ErrNotCustomer
	}

	booking := &models.Booking{
		CustomerID: customer.ID,
		HotelID:    in.HotelID,
		Status:     models.StatusPending,
	}
	booking.SetDates(in.CheckIn, in.CheckOut)
	if err := booking.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := decrementRooms(tx, in.HotelID); err != nil {
			return err
		}
		if err := tx.Create(booking).Error; err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf("hotel %d: %w", in.HotelID, models.ErrNotFound)
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Booking %d created: customer=%d hotel=%d %s..%s", booking.ID, customer.ID, in.HotelID,
		booking.CheckInDay().Format(models.DateLayout), booking.CheckOutDay().Format(models.DateLayout))
	return s.load(s.DB.WithContext(ctx), booking.ID)
}

// Get returns the booking if actor is its customer, the owner of its hotel or
// a superuser.
func (s *BookingService) Get(ctx context.Context, actor *models.User, id uint) (*models.Booking, error) {
	booking, err := s.load(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !canViewBooking(actor, booking) {
		return nil, models.ErrForbidden
	}
	return booking, nil
}

// List returns the actor's own bookings plus the bookings on hotels they own,
// newest first. Superusers see every booking.
func (s *BookingService) List(ctx context.Context, actor *models.User) ([]models.Booking, error) {
	db := s.DB.WithContext(ctx)
	q := db.Preload("Customer").Preload("Hotel").Order("created_at DESC").Order("id DESC")
	if !actor.IsSuperuser {
		if actor.IsHotelOwner() {
			owned := db.Model(&models.Hotel{}).Select("id").Where("owner_id = ?", actor.ID)
			q = q.Where("customer_id = ? OR hotel_id IN (?)", actor.ID, owned)
		} else {
			q = q.Where("customer_id = ?", actor.ID)
		}
	}

	bookings := []models.Booking{}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// mutate locks the booking row, checks that actor may change it and runs fn
// inside the transaction. The reloaded booking is returned on success.
func (s *BookingService) mutate(ctx context.Context, actor *models.User, id uint, fn func(tx *gorm.DB, b *models.Booking, h *models.Hotel) error) (*models.Booking, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error; err != nil {
			return notFound(err, "booking")
		}
		if !canChangeBooking(actor, &booking) {
			return models.ErrForbidden
		}
		var hotel models.Hotel
		if err := tx.First(&hotel, booking.HotelID).Error; err != nil {
			return notFound(err, "hotel")
		}
		return fn(tx, &booking, &hotel)
	})
	if err != nil {
		return nil, err
	}
	return s.load(s.DB.WithContext(ctx), id)
}

// Confirm moves a pending booking to confirmed. Other statuses are left as
// they are and no error is returned.
func (s *BookingService) Confirm(ctx context.Context, actor *models.User, id uint) (*models.Booking, error) {
	return s.mutate(ctx, actor, id, func(tx *gorm.DB, b *models.Booking, _ *models.Hotel) error {
		if !b.Confirm() {
			return nil
		}
		if err := tx.Model(b).Update("status", b.Status).Error; err != nil {
			return fmt.Errorf("failed to confirm booking %d: %w", b.ID, err)
		}
		return nil
	})
}

// Cancel cancels the booking and gives its room back to the hotel. Canceling
// twice is a no-op and never releases a second room.
func (s *BookingService) Cancel(ctx context.Context, actor *models.User, id uint) (*models.Booking, error) {
	return s.mutate(ctx, actor, id, func(tx *gorm.DB, b *models.Booking, h *models.Hotel) error {
		if !b.Cancel() {
			return nil
		}
		if err := tx.Model(b).Update("status", b.Status).Error; err != nil {
			return fmt.Errorf("failed to cancel booking %d: %w", b.ID, err)
		}
		return s.Hotels.release(tx, h.ID)
	})
}

// FreezePrice stores the total at the hotel's current rate. Only confirmed
// bookings can be frozen; a booking that already carries a total keeps it.
func (s *BookingService) FreezePrice(ctx context.Context, actor *models.User, id uint) (*models.Booking, error) {
	return s.mutate(ctx, actor, id, func(tx *gorm.DB, b *models.Booking, h *models.Hotel) error {
		if b.Status != models.StatusConfirmed {
			return models.ErrInvalidTransition
		}
		if b.TotalPrice != nil {
			return nil
		}
		if err := b.FreezePrice(h.PriceNight); err != nil {
			return err
		}
		if err := tx.Model(b).Update("total_price", *b.TotalPrice).Error; err != nil {
			return fmt.Errorf("failed to freeze price of booking %d: %w", b.ID, err)
		}
		return nil
	})
}

// UpdateDates re-dates a pending booking.
func (s *BookingService) UpdateDates(ctx context.Context, actor *models.User, id uint, checkIn, checkOut time.Time) (*models.Booking, error) {
	return s.mutate(ctx, actor, id, func(tx *gorm.DB, b *models.Booking, _ *models.Hotel) error {
		if b.Status != models.StatusPending {
			return models.ErrInvalidTransition
		}
		b.SetDates(checkIn, checkOut)
		if err := b.Validate(); err != nil {
			return err
		}
		err := tx.Model(b).Updates(map[string]interface{}{
			"check_in":  b.CheckIn,
			"check_out": b.CheckOut,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update dates of booking %d: %w", b.ID, err)
		}
		return nil
	})
}
