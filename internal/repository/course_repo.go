package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/rao-samarth/timetable-generator/internal/model"
)

// CourseRepository persists the scraped course database. The store must
// round-trip the list without loss: id, name, half, classroom and sessions
// all come back exactly as written.
type CourseRepository interface {
	// List returns all stored courses ordered by name.
	List(ctx context.Context) ([]model.Course, error)
	// ReplaceAll swaps the whole course table for the given list inside one
	// transaction: delete everything, then batch insert.
	ReplaceAll(ctx context.Context, courses []model.Course) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo builds a CourseRepository backed by GORM.
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) ReplaceAll(ctx context.Context, courses []model.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Full replacement: the scraped catalog is authoritative, old rows
		// carry no audit value.
		if err := tx.Where("1 = 1").Delete(&model.Course{}).Error; err != nil {
			return err
		}
		if len(courses) > 0 {
			if err := tx.Create(&courses).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
