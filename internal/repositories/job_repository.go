package repositories

import (
	"errors"

	"skyjobs/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id uint) (*models.Job, error)
	// FindByIDWithPolygons загружает работу вместе с полигонами
	FindByIDWithPolygons(db *gorm.DB, id uint) (*models.Job, error)
	FindByUserID(db *gorm.DB, userID uint) ([]models.Job, error)
	Exists(db *gorm.DB, id uint) (bool, error)
	Delete(db *gorm.DB, id uint) error
}

type PolygonRepository interface {
	Create(db *gorm.DB, polygon *models.Polygon) error
	FindByJobID(db *gorm.DB, jobID uint) ([]models.Polygon, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Job, error) {
	var job models.Job
	if err := db.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindByIDWithPolygons(db *gorm.DB, id uint) (*models.Job, error) {
	var job models.Job
	err := db.Preload("Polygons", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	}).First(&job, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindByUserID(db *gorm.DB, userID uint) ([]models.Job, error) {
	jobs := make([]models.Job, 0)
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *JobRepositoryImpl) Exists(db *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Job{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete удаляет работу; полигоны, папки и файлы удаляются каскадно в БД
func (r *JobRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Job{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

type PolygonRepositoryImpl struct{}

func NewPolygonRepository() PolygonRepository {
	return &PolygonRepositoryImpl{}
}

func (r *PolygonRepositoryImpl) Create(db *gorm.DB, polygon *models.Polygon) error {
	return db.Create(polygon).Error
}

func (r *PolygonRepositoryImpl) FindByJobID(db *gorm.DB, jobID uint) ([]models.Polygon, error) {
	polygons := make([]models.Polygon, 0)
	if err := db.Where("job_id = ?", jobID).Order("id ASC").Find(&polygons).Error; err != nil {
		return nil, err
	}
	return polygons, nil
}
