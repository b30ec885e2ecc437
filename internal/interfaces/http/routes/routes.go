// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/warehouse-backend/internal/config"
	"github.com/your-org/warehouse-backend/internal/infrastructure/database/redis"
	"github.com/your-org/warehouse-backend/internal/interfaces/http/handlers"
	"github.com/your-org/warehouse-backend/internal/interfaces/http/middleware"
)

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/me", authHandler.Me)
			protected.POST("/change-password", authHandler.ChangePassword)
		}
	}
}

// SetupCatalogRoutes sets up item, supplier and customer routes
func SetupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	catalogHandler := handlers.NewCatalogHandler(db, cfg)

	items := rg.Group("/items")
	items.Use(middleware.AuthMiddleware(cfg))
	{
		items.GET("", catalogHandler.ListItems)
		items.GET("/categories", catalogHandler.ListCategories)
		items.GET("/:id", catalogHandler.GetItem)
		items.POST("", catalogHandler.CreateItem)
		items.PUT("/:id", catalogHandler.UpdateItem)
		items.DELETE("/:id", catalogHandler.DeleteItem)
	}

	suppliers := rg.Group("/suppliers")
	suppliers.Use(middleware.AuthMiddleware(cfg))
	{
		suppliers.GET("", catalogHandler.ListSuppliers)
		suppliers.GET("/:id", catalogHandler.GetSupplier)
		suppliers.POST("", catalogHandler.CreateSupplier)
		suppliers.PUT("/:id", catalogHandler.UpdateSupplier)
		suppliers.DELETE("/:id", catalogHandler.DeleteSupplier)
	}

	customers := rg.Group("/customers")
	customers.Use(middleware.AuthMiddleware(cfg))
	{
		customers.GET("", catalogHandler.ListCustomers)
		customers.GET("/:id", catalogHandler.GetCustomer)
		customers.POST("", catalogHandler.CreateCustomer)
		customers.PUT("/:id", catalogHandler.UpdateCustomer)
		customers.DELETE("/:id", catalogHandler.DeleteCustomer)
	}
}

// SetupInventoryRoutes sets up warehouse, stock and ledger routes
func SetupInventoryRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	inventoryHandler := handlers.NewInventoryHandler(db, cfg)

	warehouses := rg.Group("/warehouses")
	warehouses.Use(middleware.AuthMiddleware(cfg))
	{
		warehouses.GET("", inventoryHandler.ListWarehouses)
		warehouses.GET("/:id", inventoryHandler.GetWarehouse)
		warehouses.POST("", inventoryHandler.CreateWarehouse)
		warehouses.PUT("/:id", inventoryHandler.UpdateWarehouse)
		warehouses.DELETE("/:id", inventoryHandler.DeleteWarehouse)
	}

	stock := rg.Group("/inventory")
	stock.Use(middleware.AuthMiddleware(cfg))
	{
		stock.GET("", inventoryHandler.ListStock)
		stock.POST("/adjust", inventoryHandler.Adjust)
		stock.POST("/transfer", inventoryHandler.Transfer)
		stock.GET("/transactions", inventoryHandler.ListTransactions)
		stock.GET("/alerts", inventoryHandler.Alerts)
	}
}

// SetupOrderRoutes sets up purchase and sales order routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	purchaseHandler := handlers.NewPurchaseHandler(db, cfg)
	salesHandler := handlers.NewSalesHandler(db, cfg)

	purchases := rg.Group("/purchases")
	purchases.Use(middleware.AuthMiddleware(cfg))
	{
		purchases.GET("", purchaseHandler.ListOrders)
		purchases.GET("/:id", purchaseHandler.GetOrder)
		purchases.POST("", purchaseHandler.CreateOrder)
		purchases.POST("/:id/receive", purchaseHandler.ReceiveOrder)
	}

	salesOrders := rg.Group("/sales")
	salesOrders.Use(middleware.AuthMiddleware(cfg))
	{
		salesOrders.GET("", salesHandler.ListOrders)
		salesOrders.GET("/:id", salesHandler.GetOrder)
		salesOrders.POST("", salesHandler.CreateOrder)
		salesOrders.POST("/:id/deliver", salesHandler.DeliverOrder)
	}
}

// SetupPaymentRoutes sets up payment and installment routes
func SetupPaymentRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	paymentHandler := handlers.NewPaymentHandler(db, cfg)

	payments := rg.Group("/payments")
	payments.Use(middleware.AuthMiddleware(cfg))
	{
		payments.POST("", paymentHandler.RecordPayment)
		payments.GET("/order/:orderId", paymentHandler.ListByOrder)
		payments.POST("/installment", paymentHandler.CreatePlan)
		payments.GET("/installment/pending", paymentHandler.PendingInstallments)
		payments.GET("/installment/order/:orderId", paymentHandler.ListInstallments)
		payments.POST("/installment/:id/pay", paymentHandler.PayInstallment)
	}
}

// SetupReportRoutes sets up reporting and export routes
func SetupReportRoutes(rg *gin.RouterGroup, db *gorm.DB, cache *redis.Client, cfg *config.Config) {
	reportHandler := handlers.NewReportHandler(db, cache, cfg)

	reports := rg.Group("/reports")
	reports.Use(middleware.AuthMiddleware(cfg))
	{
		reports.GET("/dashboard", reportHandler.Dashboard)
		reports.GET("/sales-trend", reportHandler.SalesTrend)
		reports.GET("/top-selling-items", reportHandler.TopSellingItems)
		reports.GET("/top-customers", reportHandler.TopCustomers)
		reports.GET("/profit-analysis", reportHandler.ProfitAnalysis)
		reports.GET("/inventory/export", reportHandler.ExportInventory)
	}
}

// SetupAdminRoutes sets up admin-only routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		users := admin.Group("/users")
		{
			users.GET("", userAdminHandler.ListUsers)
			users.POST("", userAdminHandler.CreateUser)
			users.PUT("/:id/status", userAdminHandler.SetUserStatus)
		}
	}
}
