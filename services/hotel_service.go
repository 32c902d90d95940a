package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hotel-management/models"

	"gorm.io/gorm"
)

// HotelService owns hotels and their availability counter. With Strict off
// invalid price updates and over-capacity releases are ignored silently, the
// way the legacy application behaved.
type HotelService struct {
	DB     *gorm.DB
	Strict bool
}

func NewHotelService(db *gorm.DB, strict bool) *HotelService {
	return &HotelService{DB: db, Strict: strict}
}

type HotelInput struct {
	Name        string
	Address     string
	City        string
	Country     string
	Description string
	Amenities   string
	TotalRooms  int
	PriceNight  float64
}

type HotelDetailsInput struct {
	Name        *string
	Address     *string
	City        *string
	Country     *string
	Description *string
	Amenities   *string
}

// decrementRooms takes one room in a single conditional UPDATE so concurrent
// callers can never drive the counter below zero.
func decrementRooms(tx *gorm.DB, hotelID uint) error {
	res := tx.Model(&models.Hotel{}).
		Where("id = ? AND available_rooms > 0", hotelID).
		Update("available_rooms", gorm.Expr("available_rooms - 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to book room at hotel %d: %w", hotelID, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}
	if err := hotelExists(tx, hotelID); err != nil {
		return err
	}
	return models.ErrNoRoomsAvailable
}

// incrementRooms gives one room back unless the hotel is already at capacity.
// It reports whether a room was released.
func incrementRooms(tx *gorm.DB, hotelID uint) (bool, error) {
	res := tx.Model(&models.Hotel{}).
		Where("id = ? AND available_rooms < total_rooms", hotelID).
		Update("available_rooms", gorm.Expr("available_rooms + 1"))
	if res.Error != nil {
		return false, fmt.Errorf("failed to release room at hotel %d: %w", hotelID, res.Error)
	}
	if res.RowsAffected == 1 {
		return true, nil
	}
	return false, hotelExists(tx, hotelID)
}

func hotelExists(tx *gorm.DB, hotelID uint) error {
	var count int64
	if err := tx.Model(&models.Hotel{}).Where("id = ?", hotelID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check hotel %d: %w", hotelID, err)
	}
	if count == 0 {
		return fmt.Errorf("hotel %d: %w", hotelID, models.ErrNotFound)
	}
	return nil
}

func canManageHotel(actor *models.User, h *models.Hotel) bool {
	return actor.IsSuperuser || (actor.IsHotelOwner() && h.OwnerID == actor.ID)
}

func (s *HotelService) nameTaken(db *gorm.DB, name string, excludeID uint) (bool, error) {
	var count int64
	q := db.Model(&models.Hotel{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check hotel name: %w", err)
	}
	return count > 0, nil
}

// Create lists a new hotel for owner with every room available.
func (s *HotelService) Create(ctx context.Context, owner *models.User, in HotelInput) (*models.Hotel, error) {
	if !owner.IsHotelOwner() {
		return nil, models.ErrNotHotelOwner
	}

	hotel := &models.Hotel{
		Name:           strings.TrimSpace(in.Name),
		Address:        strings.TrimSpace(in.Address),
		City:           strings.TrimSpace(in.City),
		Country:        strings.TrimSpace(in.Country),
		Description:    strings.TrimSpace(in.Description),
		Amenities:      strings.TrimSpace(in.Amenities),
		OwnerID:        owner.ID,
		TotalRooms:     in.TotalRooms,
		AvailableRooms: in.TotalRooms,
		PriceNight:     models.RoundCents(in.PriceNight),
	}
	if err := hotel.Validate(); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	taken, err := s.nameTaken(db, hotel.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &models.FieldError{Field: "name", Err: models.ErrDuplicateHotelName}
	}

	if err := db.Create(hotel).Error; err != nil {
		if _, dup := duplicateKeyDetail(err); dup {
			return nil, translateDuplicate(err, hotelUniqueRules)
		}
		return nil, fmt.Errorf("failed to create hotel: %w", err)
	}
	log.Printf("Hotel %q (%d) created by user %d", hotel.Name, hotel.ID, owner.ID)
	return hotel, nil
}

func (s *HotelService) Get(ctx context.Context, id uint) (*models.Hotel, error) {
	var hotel models.Hotel
	if err := s.DB.WithContext(ctx).Preload("Owner").First(&hotel, id).Error; err != nil {
		return nil, notFound(err, "hotel")
	}
	return &hotel, nil
}

// List returns hotels ordered by name, optionally restricted to a city.
func (s *HotelService) List(ctx context.Context, city string) ([]models.Hotel, error) {
	hotels := []models.Hotel{}
	q := s.DB.WithContext(ctx).Order("name")
	if c := strings.TrimSpace(city); c != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(c))
	}
	if err := q.Find(&hotels).Error; err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	return hotels, nil
}

// UpdateDetails edits the descriptive fields. Capacity and price have their
// own operations.
func (s *HotelService) UpdateDetails(ctx context.Context, actor *models.User, id uint, in HotelDetailsInput) (*models.Hotel, error) {
	db := s.DB.WithContext(ctx)
	hotel, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageHotel(actor, hotel) {
		return nil, models.ErrForbidden
	}

	updates := map[string]interface{}{}
	set := func(column string, v *string, dst *string) {
		if v == nil {
			return
		}
		*dst = strings.TrimSpace(*v)
		updates[column] = *dst
	}
	set("name", in.Name, &hotel.Name)
	set("address", in.Address, &hotel.Address)
	set("city", in.City, &hotel.City)
	set("country", in.Country, &hotel.Country)
	set("description", in.Description, &hotel.Description)
	set("amenities", in.Amenities, &hotel.Amenities)

	if err := hotel.Validate(); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return hotel, nil
	}
	if _, ok := updates["name"]; ok {
		taken, err := s.nameTaken(db, hotel.Name, hotel.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &models.FieldError{Field: "name", Err: models.ErrDuplicateHotelName}
		}
	}

	if err := db.Model(&models.Hotel{ID: hotel.ID}).Updates(updates).Error; err != nil {
		if _, dup := duplicateKeyDetail(err); dup {
			return nil, translateDuplicate(err, hotelUniqueRules)
		}
		return nil, fmt.Errorf("failed to update hotel %d: %w", id, err)
	}
	return hotel, nil
}

// UpdatePrice sets a new nightly rate. Non-positive prices return
// ErrInvalidPrice in strict mode and are ignored otherwise.
func (s *HotelService) UpdatePrice(ctx context.Context, actor *models.User, id uint, price float64) (*models.Hotel, error) {
	hotel, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageHotel(actor, hotel) {
		return nil, models.ErrForbidden
	}
	if err := hotel.UpdatePrice(price); err != nil {
		if s.Strict {
			return nil, err
		}
		log.Printf("ignoring price update %v for hotel %d: %v", price, id, err)
		return hotel, nil
	}
	if err := s.DB.WithContext(ctx).Model(&models.Hotel{ID: hotel.ID}).
		Update("price_night", hotel.PriceNight).Error; err != nil {
		return nil, fmt.Errorf("failed to update price of hotel %d: %w", id, err)
	}
	return hotel, nil
}

// BookRoom decrements the availability counter of a hotel.
func (s *HotelService) BookRoom(ctx context.Context, id uint) error {
	return decrementRooms(s.DB.WithContext(ctx), id)
}

// ReleaseRoom increments the availability counter. At capacity it returns
// ErrCapacityExceeded in strict mode and does nothing otherwise.
func (s *HotelService) ReleaseRoom(ctx context.Context, id uint) error {
	return s.release(s.DB.WithContext(ctx), id)
}

func (s *HotelService) release(tx *gorm.DB, id uint) error {
	released, err := incrementRooms(tx, id)
	if err != nil {
		return err
	}
	if !released {
		if s.Strict {
			return models.ErrCapacityExceeded
		}
		log.Printf("ignoring room release for hotel %d: already at capacity", id)
	}
	return nil
}

// Delete removes the hotel and its bookings.
func (s *HotelService) Delete(ctx context.Context, actor *models.User, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hotel models.Hotel
		if err := tx.First(&hotel, id).Error; err != nil {
			return notFound(err, "hotel")
		}
		if !canManageHotel(actor, &hotel) {
			return models.ErrForbidden
		}
		if err := tx.Where("hotel_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return fmt.Errorf("failed to delete bookings of hotel %d: %w", id, err)
		}
		if err := tx.Delete(&hotel).Error; err != nil {
			return fmt.Errorf("failed to delete hotel %d: %w", id, err)
		}
		return nil
	})
}

