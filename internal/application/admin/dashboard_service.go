package admin

import (
	"context"
	"fmt"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/community"
	"github.com/courseplatform/backend/internal/domain/identity"
	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardStats is the admin overview of the platform
type DashboardStats struct {
	TotalUsers           int64           `json:"total_users"`
	ActiveUsers          int64           `json:"active_users"`
	TotalCourses         int64           `json:"total_courses"`
	ActiveCourses        int64           `json:"active_courses"`
	TotalProducts        int64           `json:"total_products"`
	ActiveProducts       int64           `json:"active_products"`
	TotalOrders          int64           `json:"total_orders"`
	PaidOrders           int64           `json:"paid_orders"`
	PendingOrders        int64           `json:"pending_orders"`
	TotalEnrollments     int64           `json:"total_enrollments"`
	ActiveEnrollments    int64           `json:"active_enrollments"`
	CompletedEnrollments int64           `json:"completed_enrollments"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	UpcomingEvents       int64           `json:"upcoming_events"`
	PublishedPosts       int64           `json:"published_posts"`
	UnreadMessages       int64           `json:"unread_messages"`
}

// DashboardService aggregates counts across every store
type DashboardService struct {
	userRepo       identity.UserRepository
	courseRepo     catalog.CourseRepository
	productRepo    catalog.ProductRepository
	orderRepo      trade.OrderRepository
	enrollmentRepo learning.EnrollmentRepository
	communityRepo  community.Repository
	logger         *zap.Logger
}

// DashboardRepositories groups the stores the dashboard reads from
type DashboardRepositories struct {
	Users       identity.UserRepository
	Courses     catalog.CourseRepository
	Products    catalog.ProductRepository
	Orders      trade.OrderRepository
	Enrollments learning.EnrollmentRepository
	Community   community.Repository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repos DashboardRepositories, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		userRepo:       repos.Users,
		courseRepo:     repos.Courses,
		productRepo:    repos.Products,
		orderRepo:      repos.Orders,
		enrollmentRepo: repos.Enrollments,
		communityRepo:  repos.Community,
		logger:         logger,
	}
}

// Stats computes the dashboard counters. Revenue is the sum of paid orders.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	activeUser := identity.UserStatusActive
	activeCourse := catalog.CourseStatusActive
	activeProduct := catalog.ProductStatusActive

	counters := []struct {
		name  string
		dst   *int64
		count func() (int64, error)
	}{
		{"users", &stats.TotalUsers, func() (int64, error) { return s.userRepo.Count(ctx, nil) }},
		{"active users", &stats.ActiveUsers, func() (int64, error) { return s.userRepo.Count(ctx, &activeUser) }},
		{"courses", &stats.TotalCourses, func() (int64, error) { return s.courseRepo.Count(ctx, nil) }},
		{"active courses", &stats.ActiveCourses, func() (int64, error) { return s.courseRepo.Count(ctx, &activeCourse) }},
		{"products", &stats.TotalProducts, func() (int64, error) { return s.productRepo.Count(ctx, nil) }},
		{"active products", &stats.ActiveProducts, func() (int64, error) { return s.productRepo.Count(ctx, &activeProduct) }},
		{"orders", &stats.TotalOrders, s.countOrders(ctx, "")},
		{"paid orders", &stats.PaidOrders, s.countOrders(ctx, trade.OrderStatusPaid)},
		{"pending orders", &stats.PendingOrders, s.countOrders(ctx, trade.OrderStatusPending)},
		{"enrollments", &stats.TotalEnrollments, s.countEnrollments(ctx, "")},
		{"active enrollments", &stats.ActiveEnrollments, s.countEnrollments(ctx, learning.EnrollmentStatusActive)},
		{"completed enrollments", &stats.CompletedEnrollments, s.countEnrollments(ctx, learning.EnrollmentStatusCompleted)},
	}
	for _, c := range counters {
		n, err := c.count()
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.name, err)
		}
		*c.dst = n
	}

	revenue, err := s.orderRepo.SumTotal(ctx, trade.OrderFilter{Status: string(trade.OrderStatusPaid)})
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	stats.TotalRevenue = revenue

	if s.communityRepo != nil {
		counts, err := s.communityRepo.Counts(ctx)
		if err != nil {
			return nil, fmt.Errorf("community counts: %w", err)
		}
		stats.UpcomingEvents = counts.UpcomingEvents
		stats.PublishedPosts = counts.PublishedPosts
		stats.UnreadMessages = counts.UnreadMessages
	}

	s.logger.Debug("Dashboard stats computed", zap.Int64("total_orders", stats.TotalOrders))
	return &stats, nil
}

func (s *DashboardService) countOrders(ctx context.Context, status trade.OrderStatus) func() (int64, error) {
	return func() (int64, error) {
		return s.orderRepo.Count(ctx, trade.OrderFilter{Status: string(status)})
	}
}

func (s *DashboardService) countEnrollments(ctx context.Context, status learning.EnrollmentStatus) func() (int64, error) {
	return func() (int64, error) {
		return s.enrollmentRepo.Count(ctx, learning.EnrollmentFilter{Status: string(status)})
	}
}
