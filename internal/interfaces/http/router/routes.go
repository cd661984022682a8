package router

import (
	"net/http"

	"github.com/courseplatform/backend/internal/interfaces/http/dto"
	"github.com/courseplatform/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler of the API
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Courses     *handler.CourseHandler
	Products    *handler.ProductHandler
	Orders      *handler.OrderHandler
	Enrollments *handler.EnrollmentHandler
	Dashboard   *handler.DashboardHandler
	Health      *handler.HealthHandler
}

// Guards are the per-group middleware stacks
type Guards struct {
	// Authenticated verifies the bearer token and session
	Authenticated gin.HandlerFunc
	// Admin rejects non-admin sessions; it runs after Authenticated
	Admin gin.HandlerFunc
	// AuthRateLimit throttles register and login when set
	AuthRateLimit gin.HandlerFunc
}

// Mount registers every API route on the engine plus the JSON 404 fallback
func Mount(engine *gin.Engine, h Handlers, g Guards) {
	r := NewRouter(engine)

	authRoutes := NewDomainGroup("/auth")
	credentials := []gin.HandlerFunc{}
	if g.AuthRateLimit != nil {
		credentials = append(credentials, g.AuthRateLimit)
	}
	authRoutes.POST("/register", append(credentials, h.Auth.Register)...)
	authRoutes.POST("/login", append(credentials, h.Auth.Login)...)
	session := authRoutes.Group("").Use(g.Authenticated)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/profile", h.Auth.GetProfile)
	session.PUT("/profile", h.Auth.UpdateProfile)
	session.POST("/change-password", h.Auth.ChangePassword)

	courseRoutes := NewDomainGroup("/courses")
	courseRoutes.Root(http.MethodGet, h.Courses.List)
	courseRoutes.GET("/categories", h.Courses.Categories)
	courseRoutes.GET("/levels", h.Courses.Levels)
	courseRoutes.GET("/my-courses", g.Authenticated, h.Courses.MyCourses)
	courseRoutes.GET("/:id", h.Courses.Get)
	courseRoutes.POST("/:id/enroll", g.Authenticated, h.Courses.Enroll)

	productRoutes := NewDomainGroup("/products")
	productRoutes.Root(http.MethodGet, h.Products.List)
	productRoutes.GET("/categories", h.Products.Categories)
	productRoutes.GET("/search", h.Products.Search)
	productRoutes.GET("/:id", h.Products.Get)

	orderRoutes := NewDomainGroup("/orders").Use(g.Authenticated)
	orderRoutes.Root(http.MethodPost, h.Orders.Create)
	orderRoutes.GET("/my-orders", h.Orders.MyOrders)
	orderRoutes.GET("/:id", h.Orders.Get)
	orderRoutes.POST("/:id/pay", h.Orders.Pay)
	orderRoutes.POST("/:id/cancel", h.Orders.Cancel)

	enrollmentRoutes := NewDomainGroup("/enrollments").Use(g.Authenticated)
	enrollmentRoutes.GET("/my-enrollments", h.Enrollments.MyEnrollments)
	enrollmentRoutes.GET("/:id", h.Enrollments.Get)
	enrollmentRoutes.PUT("/:id/progress", h.Enrollments.UpdateProgress)
	enrollmentRoutes.POST("/:id/complete", h.Enrollments.Complete)
	enrollmentRoutes.POST("/:id/drop", h.Enrollments.Drop)
	enrollmentRoutes.POST("/:id/reactivate", h.Enrollments.Reactivate)

	userRoutes := NewDomainGroup("/users").Use(g.Authenticated)
	userRoutes.GET("/me", h.Users.Me)
	userRoutes.PUT("/me", h.Users.UpdateMe)
	userRoutes.DELETE("/me", h.Users.DeleteMe)
	userRoutes.GET("/me/stats", h.Users.Stats)

	adminRoutes := NewDomainGroup("/admin").Use(g.Authenticated, g.Admin)
	adminRoutes.GET("/dashboard", h.Dashboard.Stats)
	adminRoutes.POST("/courses", h.Courses.Create)
	adminRoutes.PUT("/courses/:id", h.Courses.Update)
	adminRoutes.DELETE("/courses/:id", h.Courses.Delete)
	adminRoutes.POST("/products", h.Products.Create)
	adminRoutes.PUT("/products/:id", h.Products.Update)
	adminRoutes.DELETE("/products/:id", h.Products.Delete)
	adminRoutes.GET("/users", h.Users.List)
	adminRoutes.PUT("/users/:id", h.Users.Update)
	adminRoutes.DELETE("/users/:id", h.Users.Delete)
	adminRoutes.GET("/orders", h.Orders.List)
	adminRoutes.PUT("/orders/:id/status", h.Orders.UpdateStatus)
	adminRoutes.GET("/enrollments", h.Enrollments.List)

	systemRoutes := NewDomainGroup("")
	systemRoutes.GET("/health", h.Health.Health)

	r.Register(authRoutes, courseRoutes, productRoutes, orderRoutes,
		enrollmentRoutes, userRoutes, adminRoutes, systemRoutes)
	r.Setup()

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.MsgNotFound))
	})
}
