package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dannydanzka/reservapp-web-sub003/routes"
	"github.com/dannydanzka/reservapp-web-sub003/services"
	"github.com/dannydanzka/reservapp-web-sub003/storage"
	"github.com/dannydanzka/reservapp-web-sub003/utils"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	db := storage.InitializeDB()
	storage.InitializeRedis()

	ledger := storage.NewLedger(db)
	gateway := services.NewHTTPGateway(os.Getenv("PAYMENT_GATEWAY_URL"), os.Getenv("PAYMENT_GATEWAY_SECRET"))
	notifier := services.NewNotificationService(ledger)

	routes.Initialize(routes.Deps{
		Booking:  services.NewBookingService(ledger, gateway),
		Query:    services.NewPaymentQueryService(ledger, gateway),
		Stats:    services.NewStatsService(ledger, storage.Redis),
		Invoice:  services.NewInvoiceService(ledger, gateway),
		Refund:   services.NewRefundService(ledger, gateway),
		Notifier: notifier,
	})

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// Routes
	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
	}

	reservations := app.Party("/api/reservations", accessTokenVerifierMiddleware)
	{
		reservations.Post("/", routes.CreateReservation)
		reservations.Get("/", routes.ListReservations)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.OperatorOnlyMiddleware)
	{
		admin.Get("/payments", routes.AdminListPayments)
		admin.Post("/payments", routes.AdminPaymentActions)
		admin.Post("/payments/{id:uint}/invoice", routes.AdminCreateInvoice)
		admin.Get("/payments/{id:uint}/invoice", routes.AdminGetInvoice)
		// Money-moving corrections stay admin-only; venue owners keep the
		// read/invoice surface above.
		admin.Post("/payments/{id:uint}/refund", utils.AdminOnlyMiddleware, routes.AdminRefundPayment)
		admin.Patch("/payments/{id:uint}/status", utils.AdminOnlyMiddleware, routes.AdminCorrectPaymentStatus)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
