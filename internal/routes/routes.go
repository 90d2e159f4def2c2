package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/config"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/handlers"
	infraRepo "github.com/moiseinternational-web/mws-lead-backup-2/internal/infra/repository"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/middleware"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/sessions"
	ucLead "github.com/moiseinternational-web/mws-lead-backup-2/internal/usecase/lead"
	ucNotif "github.com/moiseinternational-web/mws-lead-backup-2/internal/usecase/notification"
	ucQuote "github.com/moiseinternational-web/mws-lead-backup-2/internal/usecase/quote"
	ucRevenue "github.com/moiseinternational-web/mws-lead-backup-2/internal/usecase/revenue"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/webhook"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	store *sessions.Store,
	log *zap.SugaredLogger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	leadRepo := infraRepo.NewLeadGormRepository(db)
	quoteRepo := infraRepo.NewQuoteGormRepository(db)
	notifRepo := infraRepo.NewNotificationGormRepository(db)
	revenueRepo := infraRepo.NewRevenueGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	webhookClient := webhook.NewClient(log)

	// ======================================================
	// USE CASES
	// ======================================================
	createLeadUC := ucLead.NewCreateLead(leadRepo, auditDispatcher, log)

	sendQuoteUC := ucQuote.NewSendQuote(quoteRepo, webhookClient, auditDispatcher)

	computeRevenueUC := ucRevenue.NewComputeMonthly(revenueRepo, auditDispatcher)
	recordPaymentUC := ucRevenue.NewRecordPayment(revenueRepo, auditDispatcher)

	sendBatchUC := ucNotif.NewSendBatch(notifRepo, auditDispatcher)
	updateBatchUC := ucNotif.NewUpdateBatch(notifRepo, auditDispatcher)
	deleteBatchUC := ucNotif.NewDeleteBatch(notifRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, store)
	meHandler := handlers.NewMeHandler(db)
	userAdminHandler := handlers.NewUserAdminHandler(db, store, auditDispatcher)
	clientHandler := handlers.NewClientHandler(db, store, auditDispatcher)
	serviceHandler := handlers.NewServiceHandler(db)
	leadHandler := handlers.NewLeadHandler(db, createLeadUC)
	adSpendHandler := handlers.NewAdSpendHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	quoteHandler := handlers.NewQuoteHandler(db, sendQuoteUC)
	notificationHandler := handlers.NewNotificationHandler(
		db, notifRepo, sendBatchUC, updateBatchUC, deleteBatchUC,
	)
	revenueHandler := handlers.NewRevenueHandler(db, revenueRepo, computeRevenueUC, recordPaymentUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg, db, store))
		{
			secured.POST("/auth/logout", authHandler.Logout)
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/notifications", notificationHandler.ListMine)
			secured.PATCH("/me/notifications/:id/read", notificationHandler.MarkRead)
			secured.PATCH("/me/notifications/read-all", notificationHandler.MarkAllRead)

			// ------------------------------
			// CLIENT SCOPE (own account)
			// ------------------------------
			clientAPI := secured.Group("/client")
			clientAPI.Use(middleware.RequireRole(models.RoleClient))
			{
				clientAPI.GET("/account", clientHandler.Get)
				clientAPI.PATCH("/account", clientHandler.Update)

				clientAPI.GET("/services", serviceHandler.List)

				clientAPI.GET("/leads", leadHandler.List)
				clientAPI.POST("/leads", leadHandler.Create)
				clientAPI.GET("/leads/:id", leadHandler.Get)
				clientAPI.POST("/leads/:id/notes", leadHandler.AddNote)

				clientAPI.GET("/ad-spends", adSpendHandler.List)

				clientAPI.GET("/appointments", appointmentHandler.ListByMonth)
				clientAPI.GET("/appointments/day", appointmentHandler.ListByDate)

				clientAPI.GET("/quotes", quoteHandler.List)
				clientAPI.GET("/quotes/:id", quoteHandler.Get)
				clientAPI.PATCH("/quotes/:id/accept", quoteHandler.Accept)
				clientAPI.PATCH("/quotes/:id/reject", quoteHandler.Reject)

				clientAPI.GET("/revenue", revenueHandler.ListForClient)
			}

			// ------------------------------
			// ADMIN SCOPE
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", userAdminHandler.List)
				admin.POST("/users", userAdminHandler.Create)
				admin.PATCH("/users/:id", userAdminHandler.Update)
				admin.DELETE("/users/:id", userAdminHandler.Delete)

				admin.GET("/clients", clientHandler.List)
				admin.POST("/clients", clientHandler.Create)
				admin.GET("/clients/:client_id", clientHandler.Get)
				admin.PATCH("/clients/:client_id", clientHandler.Update)
				admin.DELETE("/clients/:client_id", clientHandler.Delete)

				admin.GET("/clients/:client_id/services", serviceHandler.List)
				admin.POST("/clients/:client_id/services", serviceHandler.Create)
				admin.PUT("/clients/:client_id/services/:id", serviceHandler.Update)
				admin.DELETE("/clients/:client_id/services/:id", serviceHandler.Delete)

				admin.GET("/clients/:client_id/leads", leadHandler.List)
				admin.POST("/clients/:client_id/leads", leadHandler.Create)
				admin.GET("/clients/:client_id/leads/:id", leadHandler.Get)
				admin.PATCH("/clients/:client_id/leads/:id", leadHandler.Update)
				admin.DELETE("/clients/:client_id/leads/:id", leadHandler.Delete)
				admin.POST("/clients/:client_id/leads/:id/notes", leadHandler.AddNote)
				admin.DELETE("/clients/:client_id/leads/:id/notes/:note_id", leadHandler.DeleteNote)

				admin.GET("/clients/:client_id/ad-spends", adSpendHandler.List)
				admin.POST("/clients/:client_id/ad-spends", adSpendHandler.Create)
				admin.PATCH("/clients/:client_id/ad-spends/:id", adSpendHandler.Update)
				admin.DELETE("/clients/:client_id/ad-spends/:id", adSpendHandler.Delete)

				admin.GET("/clients/:client_id/appointments", appointmentHandler.ListByMonth)
				admin.GET("/clients/:client_id/appointments/day", appointmentHandler.ListByDate)
				admin.POST("/clients/:client_id/appointments", appointmentHandler.Create)
				admin.PATCH("/clients/:client_id/appointments/:id", appointmentHandler.Update)
				admin.DELETE("/clients/:client_id/appointments/:id", appointmentHandler.Delete)

				admin.GET("/quotes", quoteHandler.List)
				admin.POST("/quotes", quoteHandler.Create)
				admin.GET("/quotes/:id", quoteHandler.Get)
				admin.PUT("/quotes/:id", quoteHandler.Update)
				admin.POST("/quotes/:id/send", quoteHandler.Send)
				admin.DELETE("/quotes/:id", quoteHandler.Delete)

				admin.GET("/notifications/batches", notificationHandler.ListBatches)
				admin.POST("/notifications/batches", notificationHandler.SendBatch)
				admin.PUT("/notifications/batches", notificationHandler.UpdateBatch)
				admin.DELETE("/notifications/batches", notificationHandler.DeleteBatch)

				admin.GET("/clients/:client_id/revenue", revenueHandler.ListForClient)
				admin.GET("/clients/:client_id/revenue/compute", revenueHandler.Compute)
				admin.POST("/clients/:client_id/revenue/save", revenueHandler.Save)
				admin.POST("/clients/:client_id/revenue/payment", revenueHandler.RecordPayment)
				admin.GET("/revenue/summary", revenueHandler.MonthlySummary)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
