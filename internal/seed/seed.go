package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/coursehub/course-service/internal/app/models"
	"github.com/coursehub/course-service/internal/app/repositories"
)

// CreateDefaultData inserts a few sample courses when the catalog is
// empty. Intended for development mode only; a failure here is logged
// by the caller and never blocks startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	courseRepo := repositories.NewCourseRepository(dbPool)

	existing, err := courseRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	lgr.Info().Msg("Seeding sample courses...")

	samples := []*models.Course{
		{Name: "Introduction to Programming", Description: "Fundamentals of programming with hands-on labs", Capacity: 60, Credits: 4},
		{Name: "Databases", Description: "Relational modeling, SQL, and transactions", Capacity: 40, Credits: 3},
		{Name: "DevOps", Description: "CI/CD pipelines, containers, and operations practices", Capacity: 30, Credits: 3},
	}

	for _, course := range samples {
		if _, err := courseRepo.Create(ctx, course); err != nil {
			lgr.Error().Err(err).Str("name", course.Name).Msg("Error seeding course")
			return err
		}
	}

	lgr.Info().Int("count", len(samples)).Msg("Sample courses seeded")
	return nil
}
