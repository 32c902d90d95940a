package services

import (
	"context"
	"errors"
	"testing"

	"hotel-management/models"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	env.register(t, "alice", models.RoleCustomer)

	tests := []struct {
		name      string
		in        RegisterInput
		wantErr   error
		wantField string
	}{
		{
			name:    "both roles",
			in:      RegisterInput{Username: "bob", Email: "bob@example.com", Password: "x", IsHotelOwner: true, IsCustomer: true},
			wantErr: models.ErrConflictingRole,
		},
		{
			name:      "duplicate email differs only by case",
			in:        RegisterInput{Username: "bob", Email: "ALICE@example.com", Password: "x"},
			wantErr:   models.ErrDuplicateEmail,
			wantField: "email",
		},
		{
			name:      "duplicate username",
			in:        RegisterInput{Username: "alice", Email: "other@example.com", Password: "x"},
			wantErr:   models.ErrDuplicateUsername,
			wantField: "username",
		},
		{
			name:      "short phone",
			in:        RegisterInput{Username: "bob", Email: "bob@example.com", PhoneNumber: "12345", Password: "x"},
			wantErr:   models.ErrInvalidPhoneFormat,
			wantField: "phone_number",
		},
		{
			name:      "missing password",
			in:        RegisterInput{Username: "bob", Email: "bob@example.com"},
			wantErr:   models.ErrRequiredField,
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Register(ctx, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
			}
			var fe *models.FieldError
			if errors.As(err, &fe) && fe.Field != tt.wantField {
				t.Errorf("field = %q, want %q", fe.Field, tt.wantField)
			}
		})
	}

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("users stored = %d, want 1", count)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	in := RegisterInput{Username: "carol", Email: "carol@example.com", PhoneNumber: "0123456789", Password: "x", IsCustomer: true}
	if _, err := env.users.Register(ctx, in); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	in.Username, in.Email = "dave", "dave@example.com"
	if _, err := env.users.Register(ctx, in); !errors.Is(err, models.ErrDuplicatePhone) {
		t.Fatalf("Register() error = %v, want %v", err, models.ErrDuplicatePhone)
	}
}

func TestUniqueIndexBackstop(t *testing.T) {
	env := newTestEnv(t, true)
	alice := env.register(t, "alice", models.RoleCustomer)

	dup := models.User{Username: "alice2", Email: alice.Email, Role: models.RoleCustomer}
	err := env.db.Create(&dup).Error
	if err == nil {
		t.Fatal("insert with duplicate email succeeded")
	}
	if got := translateDuplicate(err, userUniqueRules); !errors.Is(got, models.ErrDuplicateEmail) {
		t.Errorf("translateDuplicate() = %v, want %v", got, models.ErrDuplicateEmail)
	}
}

func TestTranslateDuplicateByKeyName(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			"mysql 8 key with table prefix",
			&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'email_fan' for key 'users.idx_users_username'"},
			models.ErrDuplicateUsername,
		},
		{
			"mysql 5.7 key",
			&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'username@x.io' for key 'idx_users_email'"},
			models.ErrDuplicateEmail,
		},
		{
			"postgres constraint",
			&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_phone_number", Detail: "Key (phone_number)=(0123456789) already exists."},
			models.ErrDuplicatePhone,
		},
		{
			"sqlite column",
			errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"),
			models.ErrDuplicateUsername,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translateDuplicate(tt.err, userUniqueRules); !errors.Is(got, tt.want) {
				t.Errorf("translateDuplicate() = %v, want %v", got, tt.want)
			}
		})
	}

	other := &mysql.MySQLError{Number: 1045, Message: "Access denied"}
	if got := translateDuplicate(other, userUniqueRules); got != error(other) {
		t.Errorf("translateDuplicate(non-duplicate) = %v, want the error unchanged", got)
	}
}

func TestProfileCounters(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	owner := env.register(t, "owner", models.RoleOwner)
	guest := env.register(t, "guest", models.RoleCustomer)
	h := env.hotel(t, owner, "Harbour View", 5, 80)

	p, err := env.users.Profile(ctx, guest.ID)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if p.HasBookings() || p.IsActiveCustomer {
		t.Errorf("fresh customer: has_bookings=%v active=%v, want false/false", p.HasBookings(), p.IsActiveCustomer)
	}

	b := env.book(t, guest, h.ID, "2030-01-01", "2030-01-03")
	if _, err := env.bookings.Confirm(ctx, guest, b.ID); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	p, _ = env.users.Profile(ctx, guest.ID)
	if p.TotalBookings != 1 || !p.IsActiveCustomer {
		t.Errorf("after confirm: total=%d active=%v, want 1/true", p.TotalBookings, p.IsActiveCustomer)
	}
	if p.TotalHotels != 0 {
		t.Errorf("customer TotalHotels = %d, want 0", p.TotalHotels)
	}

	op, _ := env.users.Profile(ctx, owner.ID)
	if op.TotalHotels != 1 {
		t.Errorf("owner TotalHotels = %d, want 1", op.TotalHotels)
	}
	hotels, _ := env.users.HotelsOwned(ctx, guest)
	if len(hotels) != 0 {
		t.Errorf("HotelsOwned(customer) = %d hotels, want 0", len(hotels))
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	alice := env.register(t, "alice", models.RoleCustomer)
	env.register(t, "bob", models.RoleCustomer)

	first := "Alice"
	phone := "0987654321"
	u, err := env.users.UpdateProfile(ctx, alice.ID, ProfileInput{FirstName: &first, PhoneNumber: &phone})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if u.FullName() != "Alice" || u.Phone() != phone {
		t.Errorf("profile = %q/%q, want Alice/%s", u.FullName(), u.Phone(), phone)
	}

	taken := "bob@example.com"
	if _, err := env.users.UpdateProfile(ctx, alice.ID, ProfileInput{Email: &taken}); !errors.Is(err, models.ErrDuplicateEmail) {
		t.Errorf("UpdateProfile(taken email) error = %v, want %v", err, models.ErrDuplicateEmail)
	}
	same := alice.Email
	if _, err := env.users.UpdateProfile(ctx, alice.ID, ProfileInput{Email: &same}); err != nil {
		t.Errorf("UpdateProfile(own email) error = %v", err)
	}
}

func TestListAndSetActive(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	admin := env.superuser(t, "root")
	carol := env.register(t, "carol", models.RoleCustomer)
	env.register(t, "bob", models.RoleOwner)

	if _, err := env.users.List(ctx, carol, UserFilter{}); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("List() by customer error = %v, want %v", err, models.ErrForbidden)
	}

	all, err := env.users.List(ctx, admin, UserFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var names []string
	for _, u := range all {
		names = append(names, u.Username)
	}
	if want := []string{"bob", "carol", "root"}; len(names) != 3 || names[0] != want[0] || names[1] != want[1] || names[2] != want[2] {
		t.Errorf("List() order = %v, want %v", names, want)
	}

	owners, _ := env.users.List(ctx, admin, UserFilter{Role: models.RoleOwner})
	if len(owners) != 1 || owners[0].Username != "bob" {
		t.Errorf("List(role=owner) = %v", owners)
	}
	found, _ := env.users.List(ctx, admin, UserFilter{Search: "CAR"})
	if len(found) != 1 || found[0].ID != carol.ID {
		t.Errorf("List(search) = %v", found)
	}

	n, err := env.users.SetActive(ctx, admin, []uint{carol.ID}, false)
	if err != nil || n != 1 {
		t.Fatalf("SetActive() = %d, %v", n, err)
	}
	inactive := false
	off, _ := env.users.List(ctx, admin, UserFilter{IsActive: &inactive})
	if len(off) != 1 || off[0].ID != carol.ID {
		t.Errorf("List(is_active=false) = %v", off)
	}
}

func TestDeleteUserCascade(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	owner := env.register(t, "owner", models.RoleOwner)
	other := env.register(t, "other", models.RoleOwner)
	guest := env.register(t, "guest", models.RoleCustomer)

	mine := env.hotel(t, owner, "Mine", 2, 50)
	theirs := env.hotel(t, other, "Theirs", 2, 50)
	env.book(t, guest, mine.ID, "2030-01-01", "2030-01-02")
	env.book(t, guest, theirs.ID, "2030-01-01", "2030-01-02")

	if err := env.users.Delete(ctx, other, guest.ID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("Delete() by stranger error = %v, want %v", err, models.ErrForbidden)
	}
	if err := env.users.Delete(ctx, guest, guest.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if got := env.availableRooms(t, theirs.ID); got != 2 {
		t.Errorf("rooms after guest deletion = %d, want 2", got)
	}
	var bookings int64
	env.db.Model(&models.Booking{}).Count(&bookings)
	if bookings != 0 {
		t.Errorf("bookings left = %d, want 0", bookings)
	}

	if err := env.users.Delete(ctx, owner, owner.ID); err != nil {
		t.Fatalf("Delete(owner) error = %v", err)
	}
	var hotels int64
	env.db.Model(&models.Hotel{}).Count(&hotels)
	if hotels != 1 {
		t.Errorf("hotels left = %d, want 1", hotels)
	}
	if _, err := env.users.GetByID(ctx, owner.ID); !IsNotFound(err) {
		t.Errorf("GetByID(deleted) error = %v, want not found", err)
	}
}
