package routes

import (
	"time"

	"github.com/dannydanzka/reservapp-web-sub003/services"
	"github.com/dannydanzka/reservapp-web-sub003/utils"
	"github.com/kataras/iris/v12"
)

// GET /admin/payments
func AdminListPayments(ctx iris.Context) {
	requesterID, requesterRole := utils.RequesterFromContext(ctx)

	input := services.PaymentQueryInput{
		RequesterRole: requesterRole,
		RequesterID:   requesterID,
		Page:          ctx.URLParamIntDefault("page", 1),
		Limit:         ctx.URLParamIntDefault("per_page", 25),
		Status:        ctx.URLParamDefault("status", ""),
		Search:        ctx.URLParamDefault("q", ""),
	}
	if venueID, err := ctx.URLParamInt("venue_id"); err == nil && venueID > 0 {
		input.VenueID = uint(venueID)
	}
	input.From, input.To = parseDateRange(ctx)

	page, err := queryService.List(ctx.Request().Context(), input)
	if err != nil {
		utils.HandleServiceError(ctx, err)
		return
	}
	utils.JSONPage(ctx, page.Data, page.Page, page.Limit, page.Total)
}

type adminPaymentActionInput struct {
	Action   string `json:"action" validate:"required"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
}

// POST /admin/payments { action: "getStats", dateFrom?, dateTo? }
func AdminPaymentActions(ctx iris.Context) {
	requesterID, requesterRole := utils.RequesterFromContext(ctx)

	var input adminPaymentActionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	switch input.Action {
	case "getStats":
		statsInput := services.StatsInput{RequesterRole: requesterRole, RequesterID: requesterID}
		if t, err := time.Parse(time.RFC3339, input.DateFrom); err == nil {
			statsInput.From = &t
		}
		if t, err := time.Parse(time.RFC3339, input.DateTo); err == nil {
			statsInput.To = &t
		}

		stats, err := statsService.Aggregate(ctx.Request().Context(), statsInput)
		if err != nil {
			utils.HandleServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"data": stats, "meta": iris.Map{}, "links": iris.Map{}})
	default:
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_action", "unknown action: "+input.Action)
	}
}

func parseDateRange(ctx iris.Context) (*time.Time, *time.Time) {
	var from, to *time.Time
	if s := ctx.URLParamDefault("date_from", ""); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			from = &t
		}
	}
	if s := ctx.URLParamDefault("date_to", ""); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			to = &t
		}
	}
	return from, to
}
