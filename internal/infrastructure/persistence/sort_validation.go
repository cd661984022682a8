package persistence

import (
	"strings"

	"github.com/courseplatform/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// sortSpec is the default ordering of a listing
type sortSpec struct {
	allowed      map[string]bool
	defaultField string
	defaultDir   string
}

// orderBy builds a whitelisted ORDER BY clause with id as the tiebreaker
func (s sortSpec) orderBy(filter shared.Filter) string {
	field := ValidateSortField(filter.OrderBy, s.allowed, s.defaultField)
	dir := s.defaultDir
	if strings.TrimSpace(filter.OrderDir) != "" {
		dir = ValidateSortOrder(filter.OrderDir)
	}
	if field == "id" {
		return "id " + dir
	}
	return field + " " + dir + ", id " + dir
}

// paginate applies limit/offset for the normalized filter
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}

// likeClause is a case-insensitive substring match usable on postgres and sqlite
const likeClause = "LOWER(%s) LIKE ? ESCAPE '\\'"

// likePattern builds the pattern for likeClause
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// CourseSortFields contains allowed sort fields for courses
var CourseSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"title":          true,
	"price":          true,
	"duration_hours": true,
	"level":          true,
	"category":       true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"price":          true,
	"category":       true,
	"stock_quantity": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"email":      true,
	"full_name":  true,
	"role":       true,
	"status":     true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"total_amount": true,
	"status":       true,
}

// EnrollmentSortFields contains allowed sort fields for enrollments
var EnrollmentSortFields = map[string]bool{
	"id":          true,
	"enrolled_at": true,
	"updated_at":  true,
	"progress":    true,
	"status":      true,
}

var (
	courseSort     = sortSpec{allowed: CourseSortFields, defaultField: "created_at", defaultDir: "ASC"}
	productSort    = sortSpec{allowed: ProductSortFields, defaultField: "created_at", defaultDir: "ASC"}
	userSort       = sortSpec{allowed: UserSortFields, defaultField: "created_at", defaultDir: "DESC"}
	orderSort      = sortSpec{allowed: OrderSortFields, defaultField: "created_at", defaultDir: "DESC"}
	enrollmentSort = sortSpec{allowed: EnrollmentSortFields, defaultField: "enrolled_at", defaultDir: "DESC"}
)
