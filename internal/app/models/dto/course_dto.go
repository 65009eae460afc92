package dto

import "github.com/coursehub/course-service/internal/app/models"

// Capacity adjustment actions accepted by the capacity endpoint.
const (
	ActionIncrement = "increment"
	ActionDecrement = "decrement"
)

// AvailabilityUnavailable is the sentinel attached to the derived
// availability fields when the enrollment service cannot be reached.
const AvailabilityUnavailable = "unavailable"

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity" binding:"required,gt=0"`
	Credits     int    `json:"credits" binding:"required,gt=0"`
}

// UpdateCourseRequest represents course update data. Pointer fields
// distinguish "leave unchanged" (absent) from "set to this value"
// (present), so a description can be explicitly cleared to empty.
type UpdateCourseRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	Credits     *int    `json:"credits" binding:"omitempty,gt=0"`
}

// CapacityRequest represents a capacity adjustment request made by the
// enrollment service.
type CapacityRequest struct {
	Action string `json:"action" binding:"required,oneof=increment decrement"`
}

// CourseWithAvailability is the course read view enriched with the live
// enrollment count. The derived fields hold either an int or the
// "unavailable" sentinel string, matching the public wire format.
type CourseWithAvailability struct {
	models.Course
	EnrolledCount  interface{} `json:"enrolled_count"`
	AvailableSeats interface{} `json:"available_seats"`
}

// NewCourseWithAvailability builds the read view. available_seats may be
// negative when a course is oversubscribed; it is exposed as-is.
func NewCourseWithAvailability(course *models.Course, enrolledCount int, countKnown bool) CourseWithAvailability {
	view := CourseWithAvailability{Course: *course}
	if countKnown {
		view.EnrolledCount = enrolledCount
		view.AvailableSeats = course.Capacity - enrolledCount
	} else {
		view.EnrolledCount = AvailabilityUnavailable
		view.AvailableSeats = AvailabilityUnavailable
	}
	return view
}

// HealthIntegrations reports which sibling services are configured
type HealthIntegrations struct {
	AuthService       string `json:"auth_service"`
	EnrollmentService string `json:"enrollment_service"`
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status       string             `json:"status"`
	Service      string             `json:"service"`
	Integrations HealthIntegrations `json:"integrations"`
}
