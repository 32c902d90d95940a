package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-management/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type RegisterInput struct {
	Username     string
	Email        string
	PhoneNumber  string
	FirstName    string
	LastName     string
	Password     string
	IsHotelOwner bool
	IsCustomer   bool
}

type ProfileInput struct {
	Email       *string
	PhoneNumber *string
	FirstName   *string
	LastName    *string
}

type UserFilter struct {
	Search      string
	Role        models.Role
	IsSuperuser *bool
	IsActive    *bool
}

// Profile is a user together with the counters shown on the profile page.
type Profile struct {
	User             *models.User
	TotalBookings    int64
	TotalHotels      int64
	IsActiveCustomer bool
}

func (p *Profile) HasBookings() bool { return p.TotalBookings > 0 }

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func phonePtr(phone string) *string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	return &phone
}

// checkUnique runs the form-level uniqueness checks before insert or update.
// excludeID skips the user being edited.
func (s *UserService) checkUnique(db *gorm.DB, u *models.User, excludeID uint) error {
	exists := func(column, value string) (bool, error) {
		var count int64
		q := db.Model(&models.User{}).Where(column+" = ?", value)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		if err := q.Count(&count).Error; err != nil {
			return false, fmt.Errorf("failed to check %s: %w", column, err)
		}
		return count > 0, nil
	}

	for _, rule := range userUniqueRules {
		var value string
		switch rule.column {
		case "email":
			value = u.Email
		case "username":
			value = u.Username
		case "phone_number":
			value = u.Phone()
		}
		if value == "" {
			continue
		}
		taken, err := exists(rule.column, value)
		if err != nil {
			return err
		}
		if taken {
			return &models.FieldError{Field: rule.field, Err: rule.err}
		}
	}
	return nil
}

// Register creates an account. Validation errors come back as
// *models.FieldError and nothing is written.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	role, err := models.RoleFromFlags(in.IsHotelOwner, in.IsCustomer)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    strings.TrimSpace(in.Username),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		PhoneNumber: phonePtr(in.PhoneNumber),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Role:        role,
		IsActive:    true,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, &models.FieldError{Field: "password", Err: models.ErrRequiredField}
	}

	db := s.DB.WithContext(ctx)
	if err := s.checkUnique(db, user, 0); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hash

	if err := db.Create(user).Error; err != nil {
		if _, dup := duplicateKeyDetail(err); dup {
			return nil, translateDuplicate(err, userUniqueRules)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// Profile loads the user and the derived counters in a few COUNT queries.
func (s *UserService) Profile(ctx context.Context, id uint) (*Profile, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	p := &Profile{User: user}

	if err := db.Model(&models.Booking{}).Where("customer_id = ?", id).Count(&p.TotalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if user.IsHotelOwner() {
		if err := db.Model(&models.Hotel{}).Where("owner_id = ?", id).Count(&p.TotalHotels).Error; err != nil {
			return nil, fmt.Errorf("failed to count hotels: %w", err)
		}
	}
	if user.IsCustomer() {
		var confirmed int64
		if err := db.Model(&models.Booking{}).
			Where("customer_id = ? AND status = ?", id, models.StatusConfirmed).
			Count(&confirmed).Error; err != nil {
			return nil, fmt.Errorf("failed to count confirmed bookings: %w", err)
		}
		p.IsActiveCustomer = confirmed > 0
	}
	return p, nil
}

// HotelsOwned is empty unless the user is a hotel owner.
func (s *UserService) HotelsOwned(ctx context.Context, user *models.User) ([]models.Hotel, error) {
	hotels := []models.Hotel{}
	if !user.IsHotelOwner() {
		return hotels, nil
	}
	if err := s.DB.WithContext(ctx).Where("owner_id = ?", user.ID).Order("name").Find(&hotels).Error; err != nil {
		return nil, fmt.Errorf("failed to load hotels: %w", err)
	}
	return hotels, nil
}

// UpdateProfile edits contact fields. The role cannot be changed here.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = phonePtr(*in.PhoneNumber)
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	if err := s.checkUnique(db, user, user.ID); err != nil {
		return nil, err
	}
	err = db.Model(user).Select("email", "phone_number", "first_name", "last_name").Updates(map[string]interface{}{
		"email":        user.Email,
		"phone_number": user.PhoneNumber,
		"first_name":   user.FirstName,
		"last_name":    user.LastName,
	}).Error
	if err != nil {
		if _, dup := duplicateKeyDetail(err); dup {
			return nil, translateDuplicate(err, userUniqueRules)
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return user, nil
}

// List is the superuser's user list: search over username, email and phone,
// filters on role and flags, ordered by username.
func (s *UserService) List(ctx context.Context, actor *models.User, f UserFilter) ([]models.User, error) {
	if !actor.IsSuperuser {
		return nil, models.ErrForbidden
	}
	q := s.DB.WithContext(ctx).Model(&models.User{})
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR phone_number LIKE ?", like, like, like)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.IsSuperuser != nil {
		q = q.Where("is_superuser = ?", *f.IsSuperuser)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}

	users := []models.User{}
	if err := q.Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetActive is the bulk activate/deactivate admin action.
func (s *UserService) SetActive(ctx context.Context, actor *models.User, ids []uint, active bool) (int64, error) {
	if !actor.IsSuperuser {
		return 0, models.ErrForbidden
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id IN ?", ids).Update("is_active", active)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update users: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Delete removes an account and everything that hangs off it. Rooms held by
// the user's open bookings at other owners' hotels are released in the same
// transaction.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if actor.ID != id && !actor.IsSuperuser {
		return models.ErrForbidden
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, "user")
		}

		ownHotels := tx.Model(&models.Hotel{}).Select("id").Where("owner_id = ?", id)

		var open []models.Booking
		if err := tx.Where("customer_id = ? AND status <> ? AND hotel_id NOT IN (?)", id, models.StatusCanceled, ownHotels).
			Find(&open).Error; err != nil {
			return fmt.Errorf("failed to load open bookings: %w", err)
		}
		for _, b := range open {
			if _, err := incrementRooms(tx, b.HotelID); err != nil {
				return err
			}
		}

		if err := tx.Where("hotel_id IN (?)", ownHotels).Delete(&models.Booking{}).Error; err != nil {
			return fmt.Errorf("failed to delete bookings of owned hotels: %w", err)
		}
		if err := tx.Where("owner_id = ?", id).Delete(&models.Hotel{}).Error; err != nil {
			return fmt.Errorf("failed to delete hotels: %w", err)
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return fmt.Errorf("failed to delete bookings: %w", err)
		}
		if err := tx.Model(&user).Association("Groups").Clear(); err != nil {
			return fmt.Errorf("failed to clear groups: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RevokedToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete revoked tokens: %w", err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

// IsNotFound reports whether err carries models.ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
