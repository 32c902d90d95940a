package services

import (
	"context"
	"fmt"
	"math"

	"hotel-management/models"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// HotelOccupancy is one row of the owner dashboard.
type HotelOccupancy struct {
	HotelID        uint    `db:"hotel_id" json:"hotel_id"`
	Name           string  `db:"name" json:"name"`
	City           string  `db:"city" json:"city"`
	TotalRooms     int     `db:"total_rooms" json:"total_rooms"`
	AvailableRooms int     `db:"available_rooms" json:"available_rooms"`
	PriceNight     float64 `db:"price_night" json:"price_night"`
	TotalBookings  int64   `db:"total_bookings" json:"total_bookings"`
	Pending        int64   `db:"pending" json:"pending"`
	Confirmed      int64   `db:"confirmed" json:"confirmed"`
	Canceled       int64   `db:"canceled" json:"canceled"`
	FrozenRevenue  float64 `db:"frozen_revenue" json:"frozen_revenue"`
	OccupancyPct   float64 `db:"-" json:"occupancy_pct"`
}

// ReportService runs the read-only aggregate queries over the same pool gorm
// uses.
type ReportService struct {
	db *sqlx.DB
}

func NewReportService(gdb *gorm.DB) (*ReportService, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return &ReportService{db: sqlx.NewDb(sqlDB, gdb.Dialector.Name())}, nil
}

const occupancyQuery = `
	SELECT
		h.id AS hotel_id,
		h.name,
		h.city,
		h.total_rooms,
		h.available_rooms,
		h.price_night,
		COUNT(b.id) AS total_bookings,
		COALESCE(SUM(CASE WHEN b.status = ? THEN 1 ELSE 0 END), 0) AS pending,
		COALESCE(SUM(CASE WHEN b.status = ? THEN 1 ELSE 0 END), 0) AS confirmed,
		COALESCE(SUM(CASE WHEN b.status = ? THEN 1 ELSE 0 END), 0) AS canceled,
		COALESCE(SUM(CASE WHEN b.status = ? AND b.total_price IS NOT NULL THEN b.total_price ELSE 0 END), 0) AS frozen_revenue
	FROM hotels h
	LEFT JOIN bookings b ON b.hotel_id = h.id
	%s
	GROUP BY h.id, h.name, h.city, h.total_rooms, h.available_rooms, h.price_night
	ORDER BY h.name
`

// OwnerDashboard reports occupancy and booking counts for the actor's hotels.
// Superusers get every hotel.
func (s *ReportService) OwnerDashboard(ctx context.Context, actor *models.User) ([]HotelOccupancy, error) {
	if !actor.IsSuperuser && !actor.IsHotelOwner() {
		return nil, models.ErrNotHotelOwner
	}

	args := []interface{}{models.StatusPending, models.StatusConfirmed, models.StatusCanceled, models.StatusConfirmed}
	where := ""
	if !actor.IsSuperuser {
		where = "WHERE h.owner_id = ?"
		args = append(args, actor.ID)
	}
	query := s.db.Rebind(fmt.Sprintf(occupancyQuery, where))

	rows := []HotelOccupancy{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load owner dashboard: %w", err)
	}
	for i := range rows {
		r := &rows[i]
		r.FrozenRevenue = models.RoundCents(r.FrozenRevenue)
		if r.TotalRooms > 0 {
			occupied := float64(r.TotalRooms - r.AvailableRooms)
			r.OccupancyPct = math.Round(occupied/float64(r.TotalRooms)*1000) / 10
		}
	}
	return rows, nil
}
