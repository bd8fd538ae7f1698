package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-sched-api/internal/models"
)

// CurriculumRepository reads the sections, courses, and teaching units
// the scheduling snapshot is built from.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository constructs a CurriculumRepository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// ListSections returns every section.
func (r *CurriculumRepository) ListSections(ctx context.Context) ([]models.Section, error) {
	const query = `SELECT id, code, year_level, is_first_year FROM sections ORDER BY code ASC`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// ListCourses returns every course.
func (r *CurriculumRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, code, name, units, kind, duration_minutes FROM courses ORDER BY code ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListTeachingUnitsByTerm returns the work-items to be placed for a term.
func (r *CurriculumRepository) ListTeachingUnitsByTerm(ctx context.Context, termID string) ([]models.TeachingUnit, error) {
	const query = `SELECT id, teacher_id, course_id, section_id, term_id, created_at
		FROM teaching_units WHERE term_id = $1 ORDER BY id ASC`
	var units []models.TeachingUnit
	if err := r.db.SelectContext(ctx, &units, query, termID); err != nil {
		return nil, fmt.Errorf("list teaching units: %w", err)
	}
	return units, nil
}
