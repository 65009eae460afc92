package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coursehub/course-service/internal/app/models"
	"github.com/coursehub/course-service/internal/pkg/apperrors"
	"github.com/coursehub/course-service/internal/pkg/logger"
)

const courseColumns = "id, name, description, capacity, credits, created_at, updated_at"

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.Description,
		&course.Capacity,
		&course.Credits,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Create inserts a new course and returns the stored record with its
// generated id and timestamps.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	sql, args, err := r.sb.Insert("courses").
		Columns("name", "description", "capacity", "credits").
		Values(course.Name, course.Description, course.Capacity, course.Credits).
		Suffix("RETURNING " + courseColumns).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return nil, fmt.Errorf("failed to build create course query: %w", err)
	}

	created, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create course query")
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	return created, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return course, nil
}

// GetAll retrieves all courses, newest first
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns).
		From("courses").
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get all courses SQL")
		return nil, fmt.Errorf("failed to build get all courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row during get all")
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// UpdateFields applies a partial update to a course's descriptive
// fields and returns the updated record. Nil fields in the update are
// not written.
func (r *CourseRepository) UpdateFields(ctx context.Context, id int64, update models.CourseUpdate) (*models.Course, error) {
	if update.IsEmpty() {
		// Nothing to write; return the current record
		return r.GetByID(ctx, id)
	}

	builder := r.sb.Update("courses").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + courseColumns)

	if update.Name != nil {
		builder = builder.Set("name", *update.Name)
	}
	if update.Description != nil {
		builder = builder.Set("description", *update.Description)
	}
	if update.Credits != nil {
		builder = builder.Set("credits", *update.Credits)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course SQL")
		return nil, fmt.Errorf("failed to build update course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing update course query")
		return nil, fmt.Errorf("error updating course: %w", err)
	}

	return course, nil
}

// IncrementCapacity atomically adds one advertised seat and returns the
// updated record.
func (r *CourseRepository) IncrementCapacity(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Update("courses").
		Set("capacity", squirrel.Expr("capacity + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + courseColumns).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building increment capacity SQL")
		return nil, fmt.Errorf("failed to build increment capacity query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing increment capacity query")
		return nil, fmt.Errorf("error incrementing capacity: %w", err)
	}

	return course, nil
}

// DecrementCapacityIfAbove atomically removes one advertised seat,
// but only while capacity is strictly above the given threshold. The
// check and the write are a single statement, so two concurrent
// decrements cannot both pass the exhaustion check on the same seat.
// Returns ErrCapacityExhausted when the course exists but the guard
// fails, and ErrCourseNotFound when the id does not resolve.
func (r *CourseRepository) DecrementCapacityIfAbove(ctx context.Context, id int64, threshold int) (*models.Course, error) {
	sql, args, err := r.sb.Update("courses").
		Set("capacity", squirrel.Expr("capacity - 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"capacity": threshold}).
		Suffix("RETURNING " + courseColumns).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building decrement capacity SQL")
		return nil, fmt.Errorf("failed to build decrement capacity query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing course from a failed guard
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, apperrors.ErrCapacityExhausted
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing decrement capacity query")
		return nil, fmt.Errorf("error decrementing capacity: %w", err)
	}

	return course, nil
}
