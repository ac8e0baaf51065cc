package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/dannydanzka/reservapp-web-sub003/services"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data":  data,
		"meta":  PageMeta{Page: page, PerPage: perPage, Total: total},
		"links": iris.Map{},
	})
}

func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

func CreateError(status int, title string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(status, iris.Map{"error": title, "message": detail})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal Server Error", "something went wrong", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "resource not found", ctx)
}

func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]iris.Map, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, iris.Map{"field": e.Field(), "rule": e.Tag()})
		}
		ctx.StopWithJSON(iris.StatusUnprocessableEntity, iris.Map{
			"error":   "validation_error",
			"message": "request validation failed",
			"fields":  fields,
		})
		return
	}
	CreateError(iris.StatusBadRequest, "invalid_payload", err.Error(), ctx)
}

// HandleServiceError maps the workflow error taxonomy onto HTTP responses.
// Internal errors keep their detail in logs only.
func HandleServiceError(ctx iris.Context, err error) {
	switch {
	case services.IsValidation(err):
		JSONError(ctx, http.StatusBadRequest, "validation_error", err.Error())
	case services.IsNotFound(err):
		JSONError(ctx, http.StatusNotFound, "not_found", err.Error())
	case services.IsForbidden(err):
		JSONError(ctx, http.StatusForbidden, "forbidden", err.Error())
	case services.IsConflict(err):
		var conflict *services.ConflictError
		errors.As(err, &conflict)
		ctx.StatusCode(http.StatusConflict)
		ctx.JSON(iris.Map{"error": "conflict", "message": err.Error(), "existingID": conflict.ExistingID})
	default:
		if gwErr, ok := services.AsGatewayError(err); ok {
			JSONError(ctx, http.StatusBadRequest, gwErr.Code, gwErr.UserMessage)
			return
		}
		log.Printf("internal error: %v", err)
		JSONError(ctx, http.StatusInternalServerError, "server_error", "something went wrong")
	}
}
