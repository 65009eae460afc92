package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/coursehub/course-service/internal/app/clients"
	"github.com/coursehub/course-service/internal/app/models"
	"github.com/coursehub/course-service/internal/app/models/dto"
	"github.com/coursehub/course-service/internal/pkg/apperrors"
)

// CourseStore is the persistence contract the service depends on.
// DecrementCapacityIfAbove must be atomic at the store level: the
// exhaustion check and the write happen as one operation, so concurrent
// decrements on the same course cannot produce a lost update.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) (*models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	UpdateFields(ctx context.Context, id int64, update models.CourseUpdate) (*models.Course, error)
	IncrementCapacity(ctx context.Context, id int64) (*models.Course, error)
	DecrementCapacityIfAbove(ctx context.Context, id int64, threshold int) (*models.Course, error)
}

// CourseService defines the interface for course catalog operations
type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	GetCourseWithAvailability(ctx context.Context, id int64) (*dto.CourseWithAvailability, error)
	UpdateCourse(ctx context.Context, id int64, update models.CourseUpdate) (*models.Course, error)
	AdjustCapacity(ctx context.Context, id int64, action string) (*models.Course, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	store      CourseStore
	enrollment clients.EnrollmentService
	logger     zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(store CourseStore, enrollment clients.EnrollmentService, lgr zerolog.Logger) CourseService {
	return &courseServiceImpl{
		store:      store,
		enrollment: enrollment,
		logger:     lgr,
	}
}

// validateCourse validates course data before database operations
func validateCourse(course *models.Course) error {
	if course == nil {
		return apperrors.NewValidationError("course is nil")
	}
	if strings.TrimSpace(course.Name) == "" {
		return apperrors.NewValidationError("name is required")
	}
	if course.Capacity <= 0 {
		return apperrors.NewValidationError("capacity must be greater than zero")
	}
	if course.Credits <= 0 {
		return apperrors.NewValidationError("credits must be greater than zero")
	}
	return nil
}

// CreateCourse creates a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	if err := validateCourse(course); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	s.logger.Info().Int64("courseID", created.ID).Str("name", created.Name).Msg("Course created")
	return created, nil
}

// ListCourses retrieves all courses, newest first
func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// GetCourseWithAvailability retrieves a course together with its live
// enrollment count and derived available seats. Oracle failure degrades
// the derived fields to the "unavailable" sentinel; the base course is
// still returned.
func (s *courseServiceImpl) GetCourseWithAvailability(ctx context.Context, id int64) (*dto.CourseWithAvailability, error) {
	course, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollment.GetEnrollmentCount(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Int64("courseID", id).Msg("Enrollment count unavailable, returning degraded view")
		view := dto.NewCourseWithAvailability(course, 0, false)
		return &view, nil
	}

	view := dto.NewCourseWithAvailability(course, enrolled, true)
	return &view, nil
}

// UpdateCourse applies a partial update to a course's descriptive fields
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, update models.CourseUpdate) (*models.Course, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, apperrors.NewValidationError("name cannot be empty")
	}
	if update.Credits != nil && *update.Credits <= 0 {
		return nil, apperrors.NewValidationError("credits must be greater than zero")
	}

	course, err := s.store.UpdateFields(ctx, id, update)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error updating course: %w", err)
	}
	return course, nil
}

// AdjustCapacity increments or decrements a course's advertised seat
// capacity. Increment is unconditional and unbounded. Decrement first
// asks the enrollment service for the live count and refuses to shrink
// capacity below it; when the count is unavailable the course is assumed
// to have exactly one free seat, a conservative default that lets a
// single decrement proceed. Under a sustained enrollment outage repeated
// decrements therefore all succeed; that drift is accepted behavior,
// not something this service papers over.
func (s *courseServiceImpl) AdjustCapacity(ctx context.Context, id int64, action string) (*models.Course, error) {
	if action != dto.ActionIncrement && action != dto.ActionDecrement {
		return nil, fmt.Errorf("%w: action must be '%s' or '%s'", apperrors.ErrInvalidAction, dto.ActionIncrement, dto.ActionDecrement)
	}

	course, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if action == dto.ActionIncrement {
		updated, err := s.store.IncrementCapacity(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error incrementing capacity: %w", err)
		}
		s.logger.Info().Int64("courseID", id).Int("capacity", updated.Capacity).Msg("Capacity incremented")
		return updated, nil
	}

	enrolled, err := s.enrollment.GetEnrollmentCount(ctx, id)
	if err != nil {
		// Fallback: assume exactly one seat is free so the decrement
		// can proceed once. Clamped at zero so a course with no
		// advertised seats is reported exhausted rather than driven
		// negative.
		enrolled = course.Capacity - 1
		if enrolled < 0 {
			enrolled = 0
		}
		s.logger.Warn().Err(err).Int64("courseID", id).Int("assumedEnrolled", enrolled).
			Msg("Enrollment count unavailable, applying conservative fallback")
	}

	updated, err := s.store.DecrementCapacityIfAbove(ctx, id, enrolled)
	if err != nil {
		if errors.Is(err, apperrors.ErrCapacityExhausted) || errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error decrementing capacity: %w", err)
	}

	s.logger.Info().Int64("courseID", id).Int("capacity", updated.Capacity).Int("enrolled", enrolled).Msg("Capacity decremented")
	return updated, nil
}
