package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"smsburst-backend/auth"
	"smsburst-backend/controllers"
	"smsburst-backend/middlewares"
	"smsburst-backend/models"
)

// Deps carries everything the route tree needs.
type Deps struct {
	DB       *gorm.DB
	JWT      *auth.JWTManager
	Keys     *auth.KeyStore
	Auth     *controllers.AuthController
	Campaign *controllers.CampaignController
	Credit   *controllers.CreditController
	Render   *controllers.RenderController
	Admin    *controllers.AdminController
}

// Register wires all HTTP routes.
func Register(app *fiber.App, d Deps) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/auth/signup", d.Auth.Signup)
	api.Post("/auth/login", d.Auth.Login)

	// Session-protected endpoints (JWT cookie)
	protected := api.Group("")
	protected.Use(middlewares.RequireUser(d.JWT))

	protected.Get("/auth/me", d.Auth.Me)
	protected.Get("/auth/sessions", d.Auth.Sessions)
	protected.Delete("/auth/sessions", d.Auth.Logout)
	protected.Get("/auth/verify-device", d.Auth.VerifyDevice)

	protected.Get("/campaigns", d.Campaign.List)
	protected.Post("/campaigns", d.Campaign.Create)

	// Idempotency guard covers the credit-mutating endpoints only.
	mutating := protected.Group("")
	mutating.Use(middlewares.Idempotency(d.DB))

	mutating.Post("/credits/deduct", d.Credit.Deduct)
	mutating.Post("/credits/purchase", d.Credit.Purchase)
	mutating.Post("/render/deploy", d.Render.Deploy)
	mutating.Post("/render/stop", d.Render.Stop)

	protected.Get("/credits/transactions", d.Credit.Transactions)
	protected.Get("/transactions", d.Credit.History)

	// Admin surface (X-API-Key header, role=admin)
	admin := api.Group("/admin")
	admin.Use(middlewares.RequireAPIKey(d.Keys, models.RoleAdmin))

	admin.Get("/keys", d.Admin.ListKeys)
	admin.Post("/keys", d.Admin.CreateKey)
	admin.Get("/blacklist", d.Admin.GetBlacklist)
	admin.Post("/blacklist", d.Admin.AddBlacklist)
	admin.Get("/block-phone", d.Admin.BlockedNumbers)
	admin.Post("/block-phone", d.Admin.BlockPhone)
	admin.Get("/jobs", d.Admin.Jobs)
}
