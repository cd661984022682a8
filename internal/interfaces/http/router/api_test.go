package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/courseplatform/backend/internal/application/admin"
	"github.com/courseplatform/backend/internal/application/catalog"
	"github.com/courseplatform/backend/internal/application/checkout"
	appidentity "github.com/courseplatform/backend/internal/application/identity"
	"github.com/courseplatform/backend/internal/application/learning"
	domaincatalog "github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/identity"
	"github.com/courseplatform/backend/internal/infrastructure/auth"
	"github.com/courseplatform/backend/internal/infrastructure/cache"
	"github.com/courseplatform/backend/internal/infrastructure/config"
	"github.com/courseplatform/backend/internal/infrastructure/persistence"
	"github.com/courseplatform/backend/internal/interfaces/http/handler"
	"github.com/courseplatform/backend/internal/interfaces/http/middleware"
	"github.com/courseplatform/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiFixture struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(persistence.Models()...))

	userRepo := persistence.NewGormUserRepository(db)
	courseRepo := persistence.NewGormCourseRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	enrollmentRepo := persistence.NewGormEnrollmentRepository(db)

	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-32-characters-long",
		AccessTokenExpiration: time.Hour,
		Issuer:                "test-issuer",
	})
	authService := appidentity.NewAuthService(userRepo, jwtService, auth.NewInMemoryTokenBlacklist(), nil)
	userService := appidentity.NewUserService(userRepo, enrollmentRepo, orderRepo, nil)
	learningService := learning.NewService(enrollmentRepo, courseRepo, nil)

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService, userService, nil),
		Users:       handler.NewUserHandler(userService, nil),
		Courses:     handler.NewCourseHandler(catalog.NewCourseService(courseRepo, nil), learningService, nil),
		Products:    handler.NewProductHandler(catalog.NewProductService(productRepo, orderRepo, nil), nil),
		Orders:      handler.NewOrderHandler(checkout.NewService(orderRepo, persistence.NewGormTransactionScope(db), idempotency, time.Hour, nil), nil),
		Enrollments: handler.NewEnrollmentHandler(learningService, nil),
		Dashboard: handler.NewDashboardHandler(admin.NewDashboardService(admin.DashboardRepositories{
			Users:       userRepo,
			Courses:     courseRepo,
			Products:    productRepo,
			Orders:      orderRepo,
			Enrollments: enrollmentRepo,
		}, nil), nil),
		Health: handler.NewHealthHandler(sqlDB, "1.0.0", nil),
	}

	engine := gin.New()
	router.Mount(engine, handlers, router.Guards{
		Authenticated: middleware.JWTAuth(authService, nil),
		Admin:         middleware.RequireRoles(string(identity.RoleAdmin)),
	})

	return &apiFixture{t: t, db: db, engine: engine}
}

func (f *apiFixture) do(method, path, token string, body any) (int, map[string]any) {
	f.t.Helper()
	return f.doWithHeaders(method, path, token, body, nil)
}

func (f *apiFixture) doWithHeaders(method, path, token string, body any, headers map[string]string) (int, map[string]any) {
	f.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(f.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (f *apiFixture) register(email string) string {
	f.t.Helper()
	status, body := f.do(http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": email, "password": "secret123", "full_name": "Test User",
	})
	require.Equal(f.t, http.StatusCreated, status, body)
	return body["access_token"].(string)
}

func (f *apiFixture) adminToken() string {
	f.t.Helper()
	user, err := identity.NewUser("admin@example.com", "adminpass", "Admin")
	require.NoError(f.t, err)
	require.NoError(f.t, user.SetRole(identity.RoleAdmin))
	require.NoError(f.t, persistence.NewGormUserRepository(f.db).Create(context.Background(), user))

	status, body := f.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "admin@example.com", "password": "adminpass",
	})
	require.Equal(f.t, http.StatusOK, status, body)
	return body["access_token"].(string)
}

func (f *apiFixture) seedCourse(title, price string) *domaincatalog.Course {
	f.t.Helper()
	course, err := domaincatalog.NewCourse(title, decimal.RequireFromString(price))
	require.NoError(f.t, err)
	require.NoError(f.t, persistence.NewGormCourseRepository(f.db).Create(context.Background(), course))
	return course
}

func (f *apiFixture) seedProduct(name, price string, stock int) *domaincatalog.Product {
	f.t.Helper()
	product, err := domaincatalog.NewProduct(name, decimal.RequireFromString(price), stock)
	require.NoError(f.t, err)
	require.NoError(f.t, persistence.NewGormProductRepository(f.db).Create(context.Background(), product))
	return product
}

func TestAPI_FallbackAndHealth(t *testing.T) {
	f := newAPIFixture(t)

	status, body := f.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", body["error"])

	status, body = f.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "Course Platform API is running", body["message"])
	assert.Equal(t, "ok", body["database"])
}

func TestAPI_Auth(t *testing.T) {
	f := newAPIFixture(t)
	token := f.register("student@example.com")

	t.Run("duplicate email", func(t *testing.T) {
		status, body := f.do(http.MethodPost, "/api/auth/register", "", map[string]any{
			"email": "student@example.com", "password": "secret123", "full_name": "Again",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Email already registered", body["error"])
	})

	t.Run("client role is ignored", func(t *testing.T) {
		status, body := f.do(http.MethodPost, "/api/auth/register", "", map[string]any{
			"email": "sneaky@example.com", "password": "secret123", "full_name": "Sneaky", "role": "admin",
		})
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "student", body["user"].(map[string]any)["role"])
	})

	t.Run("malformed body", func(t *testing.T) {
		status, body := f.do(http.MethodPost, "/api/auth/login", "", "{not json")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid JSON body", body["error"])
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		for _, email := range []string{"student@example.com", "ghost@example.com"} {
			status, body := f.do(http.MethodPost, "/api/auth/login", "", map[string]any{
				"email": email, "password": "wrong-password",
			})
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Invalid email or password", body["error"])
		}
	})

	t.Run("oversized password is a validation error", func(t *testing.T) {
		long := strings.Repeat("a", 80)
		status, body := f.do(http.MethodPost, "/api/auth/register", "", map[string]any{
			"email": "long@example.com", "password": long, "full_name": "Long",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Password cannot exceed 72 bytes", body["error"])

		status, body = f.do(http.MethodPost, "/api/auth/change-password", token, map[string]any{
			"current_password": "secret123", "new_password": long,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Password cannot exceed 72 bytes", body["error"])
	})

	t.Run("profile round trip", func(t *testing.T) {
		status, body := f.do(http.MethodPut, "/api/auth/profile", token, map[string]any{"full_name": "  Renamed  "})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "Profile updated successfully", body["message"])

		status, body = f.do(http.MethodGet, "/api/users/me", token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Renamed", body["user"].(map[string]any)["full_name"])
	})

	t.Run("missing token", func(t *testing.T) {
		status, body := f.do(http.MethodGet, "/api/auth/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Authorization header is required", body["error"])
	})

	t.Run("password change revokes old tokens", func(t *testing.T) {
		status, body := f.do(http.MethodPost, "/api/auth/change-password", token, map[string]any{
			"current_password": "secret123", "new_password": "newsecret",
		})
		require.Equal(t, http.StatusOK, status, body)
		fresh := body["access_token"].(string)

		status, body = f.do(http.MethodGet, "/api/auth/profile", token, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Token has been revoked", body["error"])

		status, _ = f.do(http.MethodGet, "/api/auth/profile", fresh, nil)
		assert.Equal(t, http.StatusOK, status)

		status, _ = f.do(http.MethodPost, "/api/auth/logout", fresh, nil)
		assert.Equal(t, http.StatusOK, status)
		status, _ = f.do(http.MethodGet, "/api/auth/profile", fresh, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestAPI_Catalog(t *testing.T) {
	f := newAPIFixture(t)
	course := f.seedCourse("Go Basics", "100")
	f.seedProduct("Notebook", "5.50", 3)

	status, body := f.do(http.MethodGet, "/api/courses", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["courses"], 1)
	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pagination["total"])
	assert.EqualValues(t, 10, pagination["per_page"])

	status, body = f.do(http.MethodGet, "/api/courses/?page=5&per_page=abc", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["courses"])
	assert.Equal(t, false, body["pagination"].(map[string]any)["has_next"])

	status, body = f.do(http.MethodGet, "/api/courses/"+course.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 100, body["course"].(map[string]any)["price"])

	status, body = f.do(http.MethodGet, "/api/courses/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Course not found", body["error"])

	status, body = f.do(http.MethodGet, "/api/courses/levels", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"beginner", "intermediate", "advanced"}, body["levels"])

	status, body = f.do(http.MethodGet, "/api/products/search?q=note", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"], 1)
	assert.Equal(t, "note", body["query"])

	status, body = f.do(http.MethodGet, "/api/products/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Search query is required", body["error"])

	status, body = f.do(http.MethodGet, "/api/products?min_price=6", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["products"])
}

func TestAPI_PurchaseFlow(t *testing.T) {
	f := newAPIFixture(t)
	course := f.seedCourse("Go Basics", "100")
	token := f.register("buyer@example.com")

	status, body := f.do(http.MethodPost, "/api/orders/", token, map[string]any{
		"items": []map[string]any{{"type": "course", "id": course.ID.String()}},
	})
	require.Equal(t, http.StatusCreated, status, body)
	order := body["order"].(map[string]any)
	assert.EqualValues(t, 100, order["total_amount"])
	assert.Equal(t, "pending", order["status"])
	orderID := order["id"].(string)

	headers := map[string]string{"Idempotency-Key": "retry-1"}
	status, body = f.doWithHeaders(http.MethodPost, "/api/orders/"+orderID+"/pay", token, nil, headers)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Payment processed successfully", body["message"])
	assert.Equal(t, "paid", body["order"].(map[string]any)["status"])

	t.Run("replayed key returns the paid order", func(t *testing.T) {
		status, body := f.doWithHeaders(http.MethodPost, "/api/orders/"+orderID+"/pay", token, nil, headers)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "paid", body["order"].(map[string]any)["status"])
	})

	t.Run("paying again without a key is rejected", func(t *testing.T) {
		status, body := f.do(http.MethodPost, "/api/orders/"+orderID+"/pay", token, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Order is not in pending status", body["error"])
	})

	status, body = f.do(http.MethodGet, "/api/enrollments/my-enrollments", token, nil)
	require.Equal(t, http.StatusOK, status)
	enrollments := body["enrollments"].([]any)
	require.Len(t, enrollments, 1)
	enrollment := enrollments[0].(map[string]any)
	assert.Equal(t, "active", enrollment["status"])
	assert.EqualValues(t, 0, enrollment["progress"])
	enrollmentID := enrollment["id"].(string)

	t.Run("progress to 100 completes", func(t *testing.T) {
		status, body := f.do(http.MethodPut, "/api/enrollments/"+enrollmentID+"/progress", token, map[string]any{"progress": 100})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "completed", body["enrollment"].(map[string]any)["status"])

		status, body = f.do(http.MethodPost, "/api/enrollments/"+enrollmentID+"/drop", token, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Completed courses cannot be dropped", body["error"])
	})

	t.Run("other users cannot see the order", func(t *testing.T) {
		other := f.register("other@example.com")
		status, body := f.do(http.MethodGet, "/api/orders/"+orderID, other, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Order not found", body["error"])
	})

	t.Run("buying an owned course fails", func(t *testing.T) {
		status, body := f.do(http.MethodPost, "/api/orders", token, map[string]any{
			"items": []map[string]any{{"type": "course", "id": course.ID.String()}},
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Already enrolled in course Go Basics", body["error"])
	})

	status, body = f.do(http.MethodGet, "/api/users/me/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["paid_orders"])
	assert.EqualValues(t, 100, stats["total_spent"])
}

func TestAPI_FreeEnrollment(t *testing.T) {
	f := newAPIFixture(t)
	course := f.seedCourse("Free Intro", "0")
	token := f.register("learner@example.com")

	status, body := f.do(http.MethodPost, "/api/courses/"+course.ID.String()+"/enroll", token, nil)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Enrolled successfully", body["message"])

	status, body = f.do(http.MethodPost, "/api/courses/"+course.ID.String()+"/enroll", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Already enrolled in this course", body["error"])

	status, body = f.do(http.MethodGet, "/api/courses/my-courses", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["enrollments"], 1)
}

func TestAPI_Admin(t *testing.T) {
	f := newAPIFixture(t)
	student := f.register("student@example.com")
	adminToken := f.adminToken()

	t.Run("role gate", func(t *testing.T) {
		status, body := f.do(http.MethodGet, "/api/admin/dashboard", student, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Admin access required", body["error"])

		status, _ = f.do(http.MethodGet, "/api/admin/dashboard", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("course lifecycle", func(t *testing.T) {
		status, body := f.do(http.MethodPost, "/api/admin/courses", adminToken, map[string]any{"price": 10})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "title is required", body["error"])

		status, body = f.do(http.MethodPost, "/api/admin/courses", adminToken, map[string]any{
			"title": "Rust", "price": 49.5, "level": "advanced",
		})
		require.Equal(t, http.StatusCreated, status, body)
		id := body["course"].(map[string]any)["id"].(string)
		assert.Equal(t, "active", body["course"].(map[string]any)["status"])

		status, body = f.do(http.MethodPut, "/api/admin/courses/"+id, adminToken, map[string]any{"title": "Rust 2"})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "Rust 2", body["course"].(map[string]any)["title"])

		status, body = f.do(http.MethodDelete, "/api/admin/courses/"+id, adminToken, nil)
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "Course deleted successfully", body["message"])
	})

	t.Run("users", func(t *testing.T) {
		status, body := f.do(http.MethodGet, "/api/admin/users?role=student", adminToken, nil)
		require.Equal(t, http.StatusOK, status)
		users := body["users"].([]any)
		require.Len(t, users, 1)
		studentID := users[0].(map[string]any)["id"].(string)

		status, body = f.do(http.MethodPut, "/api/admin/users/"+studentID, adminToken, map[string]any{"status": "banned"})
		require.Equal(t, http.StatusOK, status, body)

		status, body = f.do(http.MethodGet, "/api/users/me", student, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("dashboard", func(t *testing.T) {
		status, body := f.do(http.MethodGet, "/api/admin/dashboard", adminToken, nil)
		require.Equal(t, http.StatusOK, status)
		stats := body["stats"].(map[string]any)
		assert.EqualValues(t, 2, stats["total_users"])
	})

	t.Run("order status validation", func(t *testing.T) {
		status, body := f.do(http.MethodPut, "/api/admin/orders/"+uuid.NewString()+"/status", adminToken, map[string]any{"status": "bogus"})
		assert.Contains(t, []int{http.StatusBadRequest, http.StatusNotFound}, status)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("enrollment filter rejects bad course id", func(t *testing.T) {
		status, body := f.do(http.MethodGet, "/api/admin/enrollments?course_id=xyz", adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid ID format", body["error"])
	})
}
