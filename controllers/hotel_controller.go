package controllers

import (
	"net/http"
	"strconv"

	"hotel-management/middleware"
	"hotel-management/services"
	"hotel-management/utils"

	"github.com/gin-gonic/gin"
)

type hotelPayload struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Address     string  `json:"address"`
	City        string  `json:"city" binding:"max=100"`
	Country     string  `json:"country" binding:"max=100"`
	Description string  `json:"description"`
	Amenities   string  `json:"amenities"`
	TotalRooms  int     `json:"total_rooms"`
	PriceNight  float64 `json:"price_night"`
}

type hotelDetailsPayload struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Address     *string `json:"address"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	Country     *string `json:"country" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Amenities   *string `json:"amenities"`
}

type pricePayload struct {
	PriceNight *float64 `json:"price_night" binding:"required"`
}

type HotelController struct {
	Hotels  *services.HotelService
	Reports *services.ReportService
}

func NewHotelController(hotels *services.HotelService, reports *services.ReportService) *HotelController {
	return &HotelController{Hotels: hotels, Reports: reports}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid_id", "invalid id", "id")
		return 0, false
	}
	return uint(id), true
}

// Create handles POST /api/hotels.
func (ctrl *HotelController) Create(c *gin.Context) {
	var payload hotelPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	hotel, err := ctrl.Hotels.Create(c.Request.Context(), middleware.CurrentUser(c), services.HotelInput{
		Name:        payload.Name,
		Address:     payload.Address,
		City:        payload.City,
		Country:     payload.Country,
		Description: payload.Description,
		Amenities:   payload.Amenities,
		TotalRooms:  payload.TotalRooms,
		PriceNight:  payload.PriceNight,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, toHotelResponse(hotel))
}

// List handles GET /api/hotels?city=.
func (ctrl *HotelController) List(c *gin.Context) {
	hotels, err := ctrl.Hotels.List(c.Request.Context(), c.Query("city"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	out := make([]hotelResponse, 0, len(hotels))
	for i := range hotels {
		out = append(out, toHotelResponse(&hotels[i]))
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// Get handles GET /api/hotels/:id.
func (ctrl *HotelController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	hotel, err := ctrl.Hotels.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toHotelResponse(hotel))
}

// Update handles PUT /api/hotels/:id.
func (ctrl *HotelController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload hotelDetailsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	hotel, err := ctrl.Hotels.UpdateDetails(c.Request.Context(), middleware.CurrentUser(c), id, services.HotelDetailsInput{
		Name:        payload.Name,
		Address:     payload.Address,
		City:        payload.City,
		Country:     payload.Country,
		Description: payload.Description,
		Amenities:   payload.Amenities,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toHotelResponse(hotel))
}

// UpdatePrice handles PATCH /api/hotels/:id/price.
func (ctrl *HotelController) UpdatePrice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload pricePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondBindError(c, err)
		return
	}
	hotel, err := ctrl.Hotels.UpdatePrice(c.Request.Context(), middleware.CurrentUser(c), id, *payload.PriceNight)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toHotelResponse(hotel))
}

// Delete handles DELETE /api/hotels/:id.
func (ctrl *HotelController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := ctrl.Hotels.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Dashboard handles GET /api/hotels/dashboard.
func (ctrl *HotelController) Dashboard(c *gin.Context) {
	rows, err := ctrl.Reports.OwnerDashboard(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	var rooms, available int
	for _, r := range rows {
		rooms += r.TotalRooms
		available += r.AvailableRooms
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"hotels":          rows,
		"total_rooms":     rooms,
		"available_rooms": available,
		"occupied_rooms":  rooms - available,
	})
}
