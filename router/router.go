package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/dinesync/controllers"
	"github.com/dinesync/dinesync/middlewares"
	"github.com/dinesync/dinesync/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	tableCtrl := controllers.NewTableController(db)
	sessionCtrl := controllers.NewSessionController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	paymentCtrl := controllers.NewPaymentController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES (diners)
	// ----------------------------------------------------------------

	// login/register behind a strict limiter
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// browse the menu
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/by-category", menuCtrl.GetMenuByCategory)

	// QR scan flow: discover or open a session, then join with the OTP
	r.GET("/tables/:table_id/scan", sessionCtrl.ScanTable)
	r.GET("/tables/:table_id/session", sessionCtrl.GetActiveSession)
	r.POST("/tables/:table_id/sessions", sessionCtrl.CreateSession)
	r.POST("/sessions/join", middlewares.NewStrictRateLimiter(), sessionCtrl.JoinSession)

	// session reads for the shared bill screen
	r.GET("/sessions/:session_id/customers", sessionCtrl.GetSessionCustomers)
	r.GET("/sessions/:session_id/orders", sessionCtrl.GetSessionOrders)
	r.GET("/sessions/:session_id/bill", sessionCtrl.GetSessionBill)

	// order placement, tagged with the session when part of one
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)

	// Midtrans notification webhook
	r.POST("/payments/callback", paymentCtrl.HandleCallback)

	// diner live stream scoped to the session
	r.GET("/sessions/:session_id/ws", controllers.LiveSessionHandler(db))

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES (staff)
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	// per-route role gates; admin passes every check
	floorStaff := middlewares.RequireRoles(models.RoleWaiter, models.RoleOwner)
	kitchenStaff := middlewares.RequireRoles(models.RoleWaiter, models.RoleChef)
	owners := middlewares.RequireRoles(models.RoleOwner)
	adminOnly := middlewares.RequireRoles()

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", adminOnly, userCtrl.GetAllUsers)
	auth.POST("/logout", userCtrl.Logout)

	// RESTAURANTS
	auth.POST("/restaurants", owners, restaurantCtrl.CreateRestaurant)
	auth.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	auth.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)
	auth.PATCH("/restaurants/:restaurant_id", owners, restaurantCtrl.UpdateRestaurant)
	auth.GET("/restaurants/:restaurant_id/sessions", sessionCtrl.GetRestaurantSessions)

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/by-status", tableCtrl.FindTablesByStatus)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
	auth.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	// SESSIONS (lifecycle mutations restricted to floor staff)
	auth.GET("/sessions/active", sessionCtrl.GetAllActiveSessions)
	auth.GET("/session-customers", sessionCtrl.GetAllSessionCustomers)
	auth.POST("/sessions/:session_id/otp", floorStaff, sessionCtrl.RegenerateOTP)
	auth.POST("/sessions/:session_id/total", sessionCtrl.RecomputeTotal)
	auth.POST("/sessions/:session_id/close", floorStaff, sessionCtrl.CloseSession)
	auth.DELETE("/sessions/:session_id", floorStaff, sessionCtrl.ClearSession)
	auth.GET("/sessions/:session_id/bill", sessionCtrl.GetSessionBill)

	// SETTLEMENT
	auth.POST("/sessions/:session_id/settlement", floorStaff, paymentCtrl.OpenSettlement)
	auth.GET("/sessions/:session_id/payments", paymentCtrl.GetSessionPayments)
	auth.POST("/payments/:payment_id/verify", floorStaff, paymentCtrl.VerifyCashPayment)
	auth.GET("/payments/:payment_id/check", paymentCtrl.CheckStatus)

	// MENU CATEGORIES
	auth.POST("/categories", categoryCtrl.CreateCategory)
	auth.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
	auth.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

	// MENUS
	auth.GET("/menus", menuCtrl.GetAllMenus)
	auth.POST("/menus", menuCtrl.CreateMenu)
	auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	auth.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

	// ORDERS
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id", kitchenStaff, orderCtrl.UpdateOrderStatus)
	auth.DELETE("/orders/:order_id", floorStaff, orderCtrl.DeleteOrder)

	// staff live stream
	auth.GET("/ws", controllers.LiveStaffHandler)

	return r
}
