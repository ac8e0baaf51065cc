package routes

import (
	"time"

	"github.com/dannydanzka/reservapp-web-sub003/models"
	"github.com/dannydanzka/reservapp-web-sub003/services"
	"github.com/dannydanzka/reservapp-web-sub003/storage"
	"github.com/dannydanzka/reservapp-web-sub003/utils"
	"github.com/kataras/iris/v12"
)

type CreateReservationInput struct {
	VenueID         uint      `json:"venueID" validate:"required"`
	ServiceID       uint      `json:"serviceID" validate:"required"`
	CheckIn         time.Time `json:"checkIn" validate:"required"`
	CheckOut        time.Time `json:"checkOut" validate:"required"`
	Guests          int       `json:"guests" validate:"required,gte=1,lte=50"`
	PaymentMethodID string    `json:"paymentMethodID"`
	Notes           string    `json:"notes"`
}

// POST /reservations
func CreateReservation(ctx iris.Context) {
	requesterID, _ := utils.RequesterFromContext(ctx)

	var input CreateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	result, err := bookingService.Book(ctx.Request().Context(), services.BookingInput{
		UserID:          requesterID,
		VenueID:         input.VenueID,
		ServiceID:       input.ServiceID,
		CheckIn:         input.CheckIn,
		CheckOut:        input.CheckOut,
		Guests:          input.Guests,
		PaymentMethodID: input.PaymentMethodID,
		Notes:           input.Notes,
	})
	if err != nil {
		utils.HandleServiceError(ctx, err)
		return
	}

	// Post-commit side effects never block or fail the booking.
	notifier.Dispatch(ctx.Request().Context(), result.Events)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"reservation":   result.Reservation,
		"payment":       result.Payment,
		"paymentIntent": result.Intent,
	})
}

// GET /reservations
func ListReservations(ctx iris.Context) {
	requesterID, requesterRole := utils.RequesterFromContext(ctx)

	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	q := storage.DB.Model(&models.Reservation{})
	if !models.IsUnrestrictedRole(requesterRole) {
		q = q.Where("user_id = ?", requesterID)
	}
	if status := ctx.URLParamDefault("status", ""); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	q.Count(&total)

	var items []models.Reservation
	if err := q.Preload("Venue").Preload("Service").
		Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").Find(&items).Error; err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}
