package routes

import (
	"github.com/dannydanzka/reservapp-web-sub003/services"
	"github.com/dannydanzka/reservapp-web-sub003/utils"
	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

type refundInput struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// POST /admin/payments/:id/refund { amount, reason }
func AdminRefundPayment(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	requesterID, requesterRole := utils.RequesterFromContext(ctx)

	var body refundInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	payment, err := refundService.Refund(ctx.Request().Context(), services.RefundInput{
		PaymentID:     id,
		RequesterRole: requesterRole,
		RequesterID:   requesterID,
		Amount:        body.Amount,
		Reason:        body.Reason,
	})
	if err != nil {
		utils.HandleServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "payment.refund", "payment", payment.ID, nil, payment)
	ctx.JSON(iris.Map{"data": payment, "meta": iris.Map{}, "links": iris.Map{}})
}

type statusCorrectionInput struct {
	Notes string `json:"notes"`
}

// PATCH /admin/payments/:id/status { notes }
func AdminCorrectPaymentStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	requesterID, requesterRole := utils.RequesterFromContext(ctx)

	var body statusCorrectionInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	payment, err := refundService.CorrectStatus(ctx.Request().Context(), services.StatusCorrectionInput{
		PaymentID:     id,
		RequesterRole: requesterRole,
		RequesterID:   requesterID,
		Notes:         body.Notes,
	})
	if err != nil {
		utils.HandleServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "payment.status_correction", "payment", payment.ID, nil, payment)
	ctx.JSON(iris.Map{"data": payment, "meta": iris.Map{}, "links": iris.Map{}})
}
