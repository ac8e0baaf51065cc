package routes

import (
	"time"

	"github.com/dannydanzka/reservapp-web-sub003/services"
	"github.com/dannydanzka/reservapp-web-sub003/utils"
	"github.com/kataras/iris/v12"
)

type createInvoiceInput struct {
	Description  string `json:"description"`
	DueDate      string `json:"dueDate"`
	AutoFinalize bool   `json:"autoFinalize"`
}

// POST /admin/payments/:id/invoice
func AdminCreateInvoice(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	requesterID, requesterRole := utils.RequesterFromContext(ctx)

	var body createInvoiceInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	input := services.InvoiceInput{
		PaymentID:     id,
		RequesterRole: requesterRole,
		RequesterID:   requesterID,
		Description:   body.Description,
		AutoFinalize:  body.AutoFinalize,
	}
	if body.DueDate != "" {
		if t, err := time.Parse(time.RFC3339, body.DueDate); err == nil {
			input.DueDate = &t
		}
	}

	receipt, err := invoiceService.Create(ctx.Request().Context(), input)
	if err != nil {
		utils.HandleServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "payment.invoice_create", "payment", id, nil, receipt)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"data": receipt, "meta": iris.Map{}, "links": iris.Map{}})
}

// GET /admin/payments/:id/invoice
func AdminGetInvoice(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	requesterID, requesterRole := utils.RequesterFromContext(ctx)

	view, err := invoiceService.Get(ctx.Request().Context(), id, requesterRole, requesterID)
	if err != nil {
		utils.HandleServiceError(ctx, err)
		return
	}
	ctx.JSON(iris.Map{"data": view, "meta": iris.Map{}, "links": iris.Map{}})
}
