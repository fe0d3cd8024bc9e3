package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldbooking/internal/domain/models"
	"fieldbooking/internal/http/middleware"
	"fieldbooking/internal/services"
	"fieldbooking/internal/utils"
)

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		QR:         qrBuilder(),
		Notifier:   notifier,
		Events:     events,
		Recipients: env.LinePushTo,
		StaleAfter: env.ReaperThreshold,
		RequestID:  middleware.GetRequestID(c),
	}
}

type createBookingRequest struct {
	FieldID   string  `json:"fieldId" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	StartTime string  `json:"startTime" binding:"required"`
	EndTime   string  `json:"endTime" binding:"required"`
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	start, err := utils.ParseISODateTime(req.StartTime)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "startTime must be an ISO-8601 datetime", err)
		return
	}
	end, err := utils.ParseISODateTime(req.EndTime)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "endTime must be an ISO-8601 datetime", err)
		return
	}

	booking, err := bookingService(c).Create(c.Request.Context(), services.CreateBookingInput{
		UserID:    middleware.GetUserID(c),
		FieldID:   req.FieldID,
		Amount:    req.Amount,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	Respond(c, http.StatusCreated, "Booking created", booking)
}

// GET /api/bookings/mine?status=&page=&pageSize=
func GetMyBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	result, err := bookingService(c).ListMine(
		c.Request.Context(),
		middleware.GetUserID(c),
		c.Query("status"),
		page,
		pageSize,
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	Respond(c, http.StatusOK, "OK", result)
}

// PATCH /api/bookings/cancel/:id
func CancelMyBooking(c *gin.Context) {
	booking, err := bookingService(c).CancelByOwner(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	Respond(c, http.StatusOK, "Cancelled", booking)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled"`
	Reason string `json:"reason"`
}

// PATCH /api/bookings/:id/status
func AdminUpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := bookingService(c).SetStatusByAdmin(
		c.Request.Context(),
		c.Param("id"),
		models.BookingStatus(req.Status),
		req.Reason,
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	Respond(c, http.StatusOK, "Status updated", booking)
}

// GET /api/bookings/availability?fieldId=&date=
func GetAvailability(c *gin.Context) {
	ranges, err := bookingService(c).Availability(c.Request.Context(), c.Query("fieldId"), c.Query("date"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	Respond(c, http.StatusOK, "OK", gin.H{"slots": ranges})
}

// GET /api/bookings/:id/receipt
func GetBookingReceipt(c *gin.Context) {
	svc := services.DocsService{
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateReceipt(
		c.Request.Context(),
		middleware.GetUserID(c),
		middleware.GetRole(c),
		c.Param("id"),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
