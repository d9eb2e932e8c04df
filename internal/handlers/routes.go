package handlers

import (
	"hesabyar/internal/auth"
	"hesabyar/internal/middleware"
	"hesabyar/internal/observability/metrics"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes binds every endpoint. The document protocol handler is
// optional; it is only mounted when this instance hosts the remote
// document store (doc != nil).
func RegisterRoutes(r *gin.Engine, h *Handler, doc *DocumentHandler) {
	r.Use(metrics.GinMiddleware())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.GET("/metrics", metrics.Handler())
	r.POST("/login", h.Login)

	// Raw document protocol: deliberately unauthenticated, whole-document
	// read and replace only.
	if doc != nil {
		r.GET("/api/document", doc.Get)
		r.PUT("/api/document", doc.Put)
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		products := api.Group("/products", middleware.RequireFeature(auth.FeatureProducts))
		{
			products.GET("", h.GetProducts)
			products.POST("", h.AddProduct)
			products.PUT("/:id", h.UpdateProduct)
			products.DELETE("/:id", h.DeleteProduct)
		}

		invoices := api.Group("/invoices", middleware.RequireFeature(auth.FeatureInvoices))
		{
			invoices.GET("", h.GetInvoices)
			invoices.POST("", h.AddInvoice)
			invoices.PUT("/:id", h.UpdateInvoice)
			invoices.DELETE("/:id", h.DeleteInvoice)
		}

		partners := api.Group("/partners", middleware.RequireFeature(auth.FeaturePartners))
		{
			partners.GET("", h.GetPartners)
			partners.POST("", h.AddPartner)
			partners.POST("/:id/investments", h.AddInvestment)
			partners.DELETE("/:id", h.DeletePartner)
		}

		payments := api.Group("", middleware.RequireFeature(auth.FeaturePayments))
		{
			payments.GET("/profit", h.GetPeriodProfit)
			payments.POST("/profit/allocate", h.AllocateDividends)
			payments.GET("/payments", h.GetPayments)
			payments.PUT("/payments/:id", h.UpdatePayment)
			payments.DELETE("/payments/:id", h.DeletePayment)
		}

		users := api.Group("/users", middleware.RequireFeature(auth.FeatureUsers))
		{
			users.GET("", h.GetUsers)
			users.POST("", h.AddUser)
			users.PUT("/:id", h.UpdateUser)
			users.DELETE("/:id", h.DeleteUser)
		}

		backups := api.Group("/backup", middleware.RequireFeature(auth.FeatureBackup))
		{
			backups.GET("", h.ExportBackup)
			backups.POST("/restore", h.RestoreBackup)
		}

		api.GET("/reports", middleware.RequireFeature(auth.FeatureReports), h.GetDashboardReport)
	}
}
