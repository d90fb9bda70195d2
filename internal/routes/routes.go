// Package routes wires repositories, services and handlers into the fiber app.
package routes

import (
	"time"

	"brokebesties/internal/events"
	"brokebesties/internal/handlers"
	"brokebesties/internal/middleware"
	"brokebesties/internal/repositories"
	"brokebesties/internal/repositories/cache"
	"brokebesties/internal/services/alert"
	"brokebesties/internal/services/debt"
	"brokebesties/internal/services/debttx"
	"brokebesties/internal/services/friend"
	"brokebesties/internal/services/group"
	"brokebesties/internal/services/invite"
	"brokebesties/internal/services/recurring"
	"brokebesties/internal/services/tab"
	"brokebesties/internal/services/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps are the process-wide handles the API is built from.
type Deps struct {
	DB        *gorm.DB
	JWTSecret string
	// Cache may be nil; inbox counts then always come from the database.
	Cache    *cache.CacheService
	InboxTTL time.Duration
	// Notifier receives every committed state change after the inbox cache.
	Notifier events.Notifier
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Deps) {
	db := deps.DB

	userRepo := repositories.NewUserRepository(db)
	debtRepo := repositories.NewDebtRepository(db)
	recurringRepo := repositories.NewRecurringPaymentRepository(db)

	var inbox *cache.Inbox
	var pinger handlers.Pinger
	if deps.Cache != nil {
		inbox = cache.NewInbox(deps.Cache, deps.InboxTTL)
		pinger = deps.Cache
	}
	notifier := events.Fanout{inbox, deps.Notifier}

	userService := user.NewService(userRepo)
	debtService := debt.NewService(debtRepo, notifier)
	txService := debttx.NewService(repositories.NewDebtTransactionRepository(db), debtRepo, inbox, notifier)
	friendService := friend.NewService(repositories.NewFriendRepository(db), inbox, notifier)
	inviteService := invite.NewService(repositories.NewInviteRepository(db), inbox, notifier)
	groupService := group.NewService(repositories.NewGroupRepository(db))
	alertService := alert.NewService(repositories.NewAlertRepository(db), debtRepo, recurringRepo)
	recurringService := recurring.NewService(recurringRepo, userRepo, notifier)
	tabService := tab.NewService(repositories.NewTabRepository(db))

	healthHandler := handlers.NewHealthHandler(db, pinger)
	app.Get("/health", healthHandler.HealthCheck)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to BrokeBesties API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	authMiddleware := middleware.NewAuthMiddleware(deps.JWTSecret, userService)
	api := app.Group("/api", authMiddleware.Handler)

	setupUserRoutes(api, handlers.NewUserHandler(userService, txService, friendService, inviteService))
	setupDebtRoutes(api, handlers.NewDebtHandler(debtService, txService), handlers.NewDebtTransactionHandler(txService))
	setupFriendRoutes(api, handlers.NewFriendHandler(friendService))
	setupGroupRoutes(api, handlers.NewGroupHandler(groupService, inviteService), handlers.NewInviteHandler(inviteService))
	setupAlertRoutes(api, handlers.NewAlertHandler(alertService))
	setupRecurringRoutes(api, handlers.NewRecurringHandler(recurringService))
	setupTabRoutes(api, handlers.NewTabHandler(tabService))
}

func setupUserRoutes(router fiber.Router, h *handlers.UserHandler) {
	router.Get("/me", h.Me)
	router.Put("/me/notifications", h.UpdateNotifications)
	router.Get("/inbox/count", h.InboxCount)
}

func setupDebtRoutes(router fiber.Router, h *handlers.DebtHandler, tx *handlers.DebtTransactionHandler) {
	debts := router.Group("/debts")
	debts.Post("/", h.CreateDebt)
	debts.Get("/", h.ListDebts)
	debts.Get("/:id", h.GetDebt)
	debts.Patch("/:id", h.UpdateDebt)
	debts.Delete("/:id", h.DeleteDebt)
	debts.Post("/:id/transactions", h.ProposeTransaction)
	debts.Get("/:id/transactions", h.ListTransactions)

	requests := router.Group("/debt-transactions")
	requests.Get("/pending", tx.ListPending)
	requests.Get("/pending/count", tx.PendingCount)
	requests.Get("/:id", tx.GetTransaction)
	requests.Post("/:id/respond", tx.Respond)
	requests.Post("/:id/cancel", tx.Cancel)
}

func setupFriendRoutes(router fiber.Router, h *handlers.FriendHandler) {
	friends := router.Group("/friends")
	friends.Post("/requests", h.SendRequest)
	friends.Get("/requests/incoming", h.ListIncoming)
	friends.Get("/requests/outgoing", h.ListOutgoing)
	friends.Get("/", h.ListFriends)
	friends.Post("/:id/accept", h.Accept)
	friends.Post("/:id/reject", h.Reject)
	friends.Delete("/:id", h.Delete)
}

func setupGroupRoutes(router fiber.Router, h *handlers.GroupHandler, inv *handlers.InviteHandler) {
	groups := router.Group("/groups")
	groups.Post("/", h.CreateGroup)
	groups.Get("/", h.ListGroups)
	groups.Get("/:id", h.GetGroup)
	groups.Post("/:id/invites", h.CreateInvite)
	groups.Get("/:id/invites", h.ListInvites)

	invites := router.Group("/invites")
	invites.Get("/", inv.ListIncoming)
	invites.Post("/:id/accept", inv.Accept)
	invites.Post("/:id/reject", inv.Reject)
	invites.Post("/:id/cancel", inv.Cancel)
}

func setupAlertRoutes(router fiber.Router, h *handlers.AlertHandler) {
	alerts := router.Group("/alerts")
	alerts.Post("/", h.CreateAlert)
	alerts.Get("/", h.ListAlerts)
	alerts.Get("/:id", h.GetAlert)
	alerts.Patch("/:id", h.UpdateAlert)
	alerts.Delete("/:id", h.DeleteAlert)
}

func setupRecurringRoutes(router fiber.Router, h *handlers.RecurringHandler) {
	payments := router.Group("/recurring-payments")
	payments.Post("/", h.CreatePayment)
	payments.Get("/", h.ListPayments)
	payments.Get("/:id", h.GetPayment)
	payments.Patch("/:id", h.UpdatePayment)
	payments.Post("/:id/toggle", h.TogglePayment)
	payments.Delete("/:id", h.DeletePayment)
}

func setupTabRoutes(router fiber.Router, h *handlers.TabHandler) {
	tabs := router.Group("/tabs")
	tabs.Post("/", h.CreateTab)
	tabs.Get("/", h.ListTabs)
	tabs.Get("/:id", h.GetTab)
	tabs.Patch("/:id", h.UpdateTab)
	tabs.Delete("/:id", h.DeleteTab)
}
