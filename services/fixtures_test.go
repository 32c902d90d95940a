package services

import (
	"context"
	"testing"
	"time"

	"hotel-management/config"
	"hotel-management/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory database. A single connection makes
// concurrent transactions queue up behind each other.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), config.GormConfig("silent"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := config.SeedDatabase(db, config.AdminAccount{}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

type testEnv struct {
	db       *gorm.DB
	users    *UserService
	groups   *GroupService
	hotels   *HotelService
	bookings *BookingService
	auth     *AuthService
}

func newTestEnv(t *testing.T, strict bool) *testEnv {
	t.Helper()
	db := newTestDB(t)
	users := NewUserService(db)
	groups := NewGroupService(db)
	hotels := NewHotelService(db, strict)
	return &testEnv{
		db:       db,
		users:    users,
		groups:   groups,
		hotels:   hotels,
		bookings: NewBookingService(db, hotels),
		auth:     NewAuthService(db, users, groups, "test-secret", time.Hour),
	}
}

func (e *testEnv) register(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	in := RegisterInput{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "secret-" + username,
		IsHotelOwner: role == models.RoleOwner,
		IsCustomer:   role == models.RoleCustomer,
	}
	u, err := e.auth.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func (e *testEnv) superuser(t *testing.T, username string) *models.User {
	t.Helper()
	u := e.register(t, username, models.RoleUnassigned)
	if err := e.db.Model(u).Update("is_superuser", true).Error; err != nil {
		t.Fatalf("promote %s: %v", username, err)
	}
	u.IsSuperuser = true
	return u
}

func (e *testEnv) hotel(t *testing.T, owner *models.User, name string, rooms int, price float64) *models.Hotel {
	t.Helper()
	h, err := e.hotels.Create(context.Background(), owner, HotelInput{
		Name:       name,
		City:       "Lisbon",
		Country:    "Portugal",
		TotalRooms: rooms,
		PriceNight: price,
	})
	if err != nil {
		t.Fatalf("create hotel %s: %v", name, err)
	}
	return h
}

func (e *testEnv) book(t *testing.T, customer *models.User, hotelID uint, checkIn, checkOut string) *models.Booking {
	t.Helper()
	b, err := e.bookings.Create(context.Background(), customer, BookingInput{
		HotelID:  hotelID,
		CheckIn:  day(t, checkIn),
		CheckOut: day(t, checkOut),
	})
	if err != nil {
		t.Fatalf("book hotel %d: %v", hotelID, err)
	}
	return b
}

func (e *testEnv) availableRooms(t *testing.T, hotelID uint) int {
	t.Helper()
	var h models.Hotel
	if err := e.db.First(&h, hotelID).Error; err != nil {
		t.Fatalf("reload hotel %d: %v", hotelID, err)
	}
	return h.AvailableRooms
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}
