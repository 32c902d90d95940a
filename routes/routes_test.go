package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"hotel-management/config"
	"hotel-management/controllers"
	"hotel-management/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), config.GormConfig("silent"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := config.Migrate(db); err != nil {
		t.Fatal(err)
	}
	if err := config.SeedDatabase(db, config.AdminAccount{}); err != nil {
		t.Fatal(err)
	}

	users := services.NewUserService(db)
	groups := services.NewGroupService(db)
	hotels := services.NewHotelService(db, true)
	bookings := services.NewBookingService(db, hotels)
	auth := services.NewAuthService(db, users, groups, "route-secret", time.Hour)
	reports, err := services.NewReportService(db)
	if err != nil {
		t.Fatal(err)
	}

	router := SetupRouter([]string{"*"}, auth, groups,
		controllers.NewAuthController(auth),
		controllers.NewUserController(users, groups),
		controllers.NewHotelController(hotels, reports),
		controllers.NewBookingController(bookings),
	)
	return &testServer{t: t, db: db, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (s *testServer) signup(username string, owner bool) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/users/register", "", gin.H{
		"username":       username,
		"email":          username + "@example.com",
		"password":       "pw-" + username,
		"is_hotel_owner": owner,
		"is_customer":    !owner,
	})
	if w.Code != http.StatusCreated {
		s.t.Fatalf("register %s: %d %s", username, w.Code, env.Error.Code)
	}
	w, env = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": "pw-" + username})
	if w.Code != http.StatusOK {
		s.t.Fatalf("login %s: %d %s", username, w.Code, env.Error.Code)
	}
	var data struct {
		Token    string `json:"token"`
		Redirect string `json:"redirect"`
	}
	json.Unmarshal(env.Data, &data)
	wantRedirect := "/booking/"
	if owner {
		wantRedirect = "/hotel/dashboard/"
	}
	if data.Redirect != wantRedirect {
		s.t.Errorf("redirect for %s = %q, want %q", username, data.Redirect, wantRedirect)
	}
	return data.Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRegisterErrors(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice", false)

	tests := []struct {
		name      string
		body      gin.H
		wantCode  int
		wantError string
		wantField string
	}{
		{"conflicting role", gin.H{"username": "bob", "email": "bob@example.com", "password": "x", "is_hotel_owner": true, "is_customer": true}, http.StatusBadRequest, "conflicting_role", ""},
		{"duplicate email", gin.H{"username": "bob", "email": "alice@example.com", "password": "x"}, http.StatusConflict, "duplicate_email", "email"},
		{"bad phone", gin.H{"username": "bob", "email": "bob@example.com", "password": "x", "phone_number": "12ab"}, http.StatusBadRequest, "invalid_phone_format", "phone_number"},
		{"missing password", gin.H{"username": "bob", "email": "bob@example.com"}, http.StatusBadRequest, "required_field", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := s.do(http.MethodPost, "/api/users/register", "", tt.body)
			if w.Code != tt.wantCode || env.Error.Code != tt.wantError || env.Error.Field != tt.wantField {
				t.Errorf("got %d %q field %q, want %d %q field %q",
					w.Code, env.Error.Code, env.Error.Field, tt.wantCode, tt.wantError, tt.wantField)
			}
		})
	}
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("owner", true)
	guest := s.signup("guest", false)
	other := s.signup("other", false)

	w, env := s.do(http.MethodPost, "/api/hotels", guest, gin.H{"name": "Nope", "total_rooms": 1, "price_night": 10})
	if w.Code != http.StatusForbidden || env.Error.Code != "not_hotel_owner" {
		t.Fatalf("customer creates hotel: %d %s", w.Code, env.Error.Code)
	}

	w, env = s.do(http.MethodPost, "/api/hotels", owner, gin.H{
		"name": "Riverside", "city": "Porto", "total_rooms": 1, "price_night": 100, "amenities": "wifi, pool",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create hotel: %d %s", w.Code, env.Error.Code)
	}
	var hotel struct {
		ID              uint     `json:"id"`
		AvailableRooms  int      `json:"available_rooms"`
		AmenitiesList   []string `json:"amenities_list"`
		HasAvailability bool     `json:"has_availability"`
	}
	json.Unmarshal(env.Data, &hotel)
	if hotel.AvailableRooms != 1 || len(hotel.AmenitiesList) != 2 || !hotel.HasAvailability {
		t.Errorf("hotel = %+v", hotel)
	}
	hotelPath := "/api/hotels/" + strconv.Itoa(int(hotel.ID))

	w, env = s.do(http.MethodPost, "/api/bookings", owner, gin.H{"hotel_id": hotel.ID, "check_in": "2030-01-01", "check_out": "2030-01-04"})
	if w.Code != http.StatusForbidden || env.Error.Code != "not_customer" {
		t.Errorf("owner books: %d %s", w.Code, env.Error.Code)
	}
	w, env = s.do(http.MethodPost, "/api/bookings", guest, gin.H{"hotel_id": hotel.ID, "check_in": "2030-01-04", "check_out": "2030-01-01"})
	if w.Code != http.StatusBadRequest || env.Error.Code != "invalid_date_range" || env.Error.Field != "check_out" {
		t.Errorf("reversed dates: %d %s %s", w.Code, env.Error.Code, env.Error.Field)
	}

	w, env = s.do(http.MethodPost, "/api/bookings", guest, gin.H{"hotel_id": hotel.ID, "check_in": "2030-01-01", "check_out": "2030-01-04"})
	if w.Code != http.StatusCreated {
		t.Fatalf("book: %d %s", w.Code, env.Error.Code)
	}
	var booking struct {
		ID         uint    `json:"id"`
		Nights     int     `json:"nights"`
		TotalPrice float64 `json:"total_price"`
		Status     string  `json:"status"`
		CheckIn    string  `json:"check_in"`
	}
	json.Unmarshal(env.Data, &booking)
	if booking.Nights != 3 || booking.TotalPrice != 300 || booking.Status != "pending" || booking.CheckIn != "2030-01-01" {
		t.Errorf("booking = %+v", booking)
	}
	bookingPath := "/api/bookings/" + strconv.Itoa(int(booking.ID))

	w, env = s.do(http.MethodPost, "/api/bookings", other, gin.H{"hotel_id": hotel.ID, "check_in": "2030-02-01", "check_out": "2030-02-02"})
	if w.Code != http.StatusConflict || env.Error.Code != "no_rooms_available" {
		t.Errorf("full hotel: %d %s", w.Code, env.Error.Code)
	}

	w, _ = s.do(http.MethodGet, bookingPath, owner, nil)
	if w.Code != http.StatusOK {
		t.Errorf("hotel owner views booking: %d", w.Code)
	}
	w, env = s.do(http.MethodPost, bookingPath+"/cancel", other, nil)
	if w.Code != http.StatusForbidden || env.Error.Code != "forbidden" {
		t.Errorf("stranger cancels: %d %s", w.Code, env.Error.Code)
	}

	w, env = s.do(http.MethodPost, bookingPath+"/freeze-price", guest, nil)
	if w.Code != http.StatusConflict || env.Error.Code != "invalid_transition" {
		t.Errorf("freeze pending: %d %s", w.Code, env.Error.Code)
	}
	if w, _ = s.do(http.MethodPost, bookingPath+"/confirm", guest, nil); w.Code != http.StatusOK {
		t.Fatalf("confirm: %d", w.Code)
	}
	if w, _ = s.do(http.MethodPost, bookingPath+"/freeze-price", guest, nil); w.Code != http.StatusOK {
		t.Fatalf("freeze: %d", w.Code)
	}

	w, env = s.do(http.MethodPatch, hotelPath+"/price", owner, gin.H{"price_night": -1})
	if w.Code != http.StatusBadRequest || env.Error.Code != "invalid_price" {
		t.Errorf("negative price: %d %s", w.Code, env.Error.Code)
	}
	if w, _ = s.do(http.MethodPatch, hotelPath+"/price", owner, gin.H{"price_night": 200}); w.Code != http.StatusOK {
		t.Fatalf("re-price: %d", w.Code)
	}
	_, env = s.do(http.MethodGet, bookingPath, guest, nil)
	json.Unmarshal(env.Data, &booking)
	if booking.TotalPrice != 300 || booking.Status != "confirmed" {
		t.Errorf("frozen booking after re-price = %+v", booking)
	}

	if w, _ = s.do(http.MethodPost, bookingPath+"/cancel", guest, nil); w.Code != http.StatusOK {
		t.Fatalf("cancel: %d", w.Code)
	}
	_, env = s.do(http.MethodGet, hotelPath, "", nil)
	json.Unmarshal(env.Data, &hotel)
	if hotel.AvailableRooms != 1 {
		t.Errorf("available after cancel = %d, want 1", hotel.AvailableRooms)
	}

	w, env = s.do(http.MethodGet, "/api/hotels/dashboard", owner, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: %d %s", w.Code, env.Error.Code)
	}
	var dash struct {
		TotalRooms int `json:"total_rooms"`
		Hotels     []struct {
			Canceled int64 `json:"canceled"`
		} `json:"hotels"`
	}
	json.Unmarshal(env.Data, &dash)
	if dash.TotalRooms != 1 || len(dash.Hotels) != 1 || dash.Hotels[0].Canceled != 1 {
		t.Errorf("dashboard = %+v", dash)
	}
}

func TestAuthGuards(t *testing.T) {
	s := newTestServer(t)
	guest := s.signup("guest", false)

	if w, env := s.do(http.MethodGet, "/api/users/me", "", nil); w.Code != http.StatusUnauthorized || env.Error.Code != "missing_token" {
		t.Errorf("no token: %d %s", w.Code, env.Error.Code)
	}
	if w, _ := s.do(http.MethodGet, "/api/users", guest, nil); w.Code != http.StatusForbidden {
		t.Errorf("customer lists users: %d", w.Code)
	}

	w, env := s.do(http.MethodGet, "/api/users/me", guest, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: %d", w.Code)
	}
	var me struct {
		FullName string   `json:"full_name"`
		Groups   []string `json:"groups"`
	}
	json.Unmarshal(env.Data, &me)
	if me.FullName != "guest" || len(me.Groups) != 1 || me.Groups[0] != "customer" {
		t.Errorf("me = %+v", me)
	}

	if w, _ := s.do(http.MethodPost, "/api/auth/logout", guest, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	if w, env := s.do(http.MethodGet, "/api/users/me", guest, nil); w.Code != http.StatusUnauthorized || env.Error.Code != "invalid_token" {
		t.Errorf("revoked token: %d %s", w.Code, env.Error.Code)
	}
}

func TestSuperuserUserAdmin(t *testing.T) {
	s := newTestServer(t)
	s.signup("carol", false)
	root := s.signup("root", false)
	s.db.Exec("UPDATE users SET is_superuser = ? WHERE username = ?", true, "root")

	w, env := s.do(http.MethodGet, "/api/users?search=car", root, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list users: %d %s", w.Code, env.Error.Code)
	}
	var list []struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
	json.Unmarshal(env.Data, &list)
	if len(list) != 1 || list[0].Username != "carol" {
		t.Fatalf("search = %+v", list)
	}

	if w, _ = s.do(http.MethodPost, "/api/users/deactivate", root, gin.H{"ids": []uint{list[0].ID}}); w.Code != http.StatusOK {
		t.Fatalf("deactivate: %d", w.Code)
	}
	w, env = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"username": "carol", "password": "pw-carol"})
	if w.Code != http.StatusForbidden || env.Error.Code != "inactive_user" {
		t.Errorf("inactive login: %d %s", w.Code, env.Error.Code)
	}
}
