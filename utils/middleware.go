package utils

import (
	"github.com/dannydanzka/reservapp-web-sub003/models"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// RequesterFromContext returns the id and role extracted from the verified
// access token. Workflows receive these explicitly; no handler reads
// ambient auth state past this point.
func RequesterFromContext(ctx iris.Context) (uint, string) {
	claims := jwt.Get(ctx).(*AccessToken)
	return claims.ID, claims.Role
}

// OperatorOnlyMiddleware gates the admin payment surface: venue owners see
// their own venues' records, admins see everything.
func OperatorOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if !models.IsOperatorRole(claims.Role) {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "operator access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// AdminOnlyMiddleware ensures the requester has admin or super_admin role
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if !models.IsUnrestrictedRole(claims.Role) {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}
