package services

import (
	"context"
	"strings"

	"skyjobs/internal/appErrors"
	"skyjobs/internal/logger"
	"skyjobs/internal/models"
	"skyjobs/internal/repositories"
	"skyjobs/internal/services/dto"
	"skyjobs/internal/storage"
	"skyjobs/internal/validator"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobService interface {
	// CreateJob создает работу, папку Images и полигоны в одной транзакции
	CreateJob(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateJobRequest) (*models.Job, error)
	GetJobDetail(ctx context.Context, db *gorm.DB, jobID uint) (*models.Job, error)
	GetJobList(ctx context.Context, db *gorm.DB, userID uint) ([]models.Job, error)
	DeleteJob(ctx context.Context, db *gorm.DB, jobID uint, requester *models.User) error
	GetFolders(ctx context.Context, db *gorm.DB, jobID uint) ([]models.Folder, error)
	CreateFolder(ctx context.Context, db *gorm.DB, jobID uint, name string) (*models.Folder, error)
	GetFiles(ctx context.Context, db *gorm.DB, jobID, folderID uint) ([]models.File, error)
}

type JobServiceImpl struct {
	jobRepo     repositories.JobRepository
	polygonRepo repositories.PolygonRepository
	folderRepo  repositories.FolderRepository
	fileRepo    repositories.FileRepository
	storage     storage.Storage
}

func NewJobService(
	jobRepo repositories.JobRepository,
	polygonRepo repositories.PolygonRepository,
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	store storage.Storage,
) JobService {
	return &JobServiceImpl{
		jobRepo:     jobRepo,
		polygonRepo: polygonRepo,
		folderRepo:  folderRepo,
		fileRepo:    fileRepo,
		storage:     store,
	}
}

func (s *JobServiceImpl) CreateJob(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateJobRequest) (*models.Job, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, appErrors.ValidationError(map[string]string{"title": "This field is required"})
	}
	for _, raw := range req.Polygons {
		if !validator.IsJSONObject(raw) {
			return nil, appErrors.ValidationError(map[string]string{"polygons": "Each polygon must be a JSON object"})
		}
	}

	job := &models.Job{
		Title:       title,
		Description: req.Description,
		Budget:      req.Budget,
		Address:     req.Address,
		Status:      models.JobStatusPending,
		UserID:      ownerID,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.jobRepo.Create(tx, job); err != nil {
			return err
		}

		folder := &models.Folder{JobID: job.ID, Name: models.DefaultFolderName}
		if err := s.folderRepo.Create(tx, folder); err != nil {
			return err
		}

		for _, raw := range req.Polygons {
			polygon := &models.Polygon{JobID: job.ID, GeoJSON: datatypes.JSON(raw)}
			if err := s.polygonRepo.Create(tx, polygon); err != nil {
				return err
			}
			job.Polygons = append(job.Polygons, *polygon)
		}
		return nil
	})
	if err != nil {
		// Транзакция откатилась: ни работы, ни папки, ни полигонов
		return nil, appErrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Job created", "job_id", job.ID, "owner_id", ownerID, "polygons", len(req.Polygons))
	return job, nil
}

func (s *JobServiceImpl) GetJobDetail(ctx context.Context, db *gorm.DB, jobID uint) (*models.Job, error) {
	job, err := s.jobRepo.FindByIDWithPolygons(db.WithContext(ctx), jobID)
	if err != nil {
		return nil, mapJobError(err)
	}
	return job, nil
}

func (s *JobServiceImpl) GetJobList(ctx context.Context, db *gorm.DB, userID uint) ([]models.Job, error) {
	jobs, err := s.jobRepo.FindByUserID(db.WithContext(ctx), userID)
	if err != nil {
		return nil, appErrors.DatabaseError(err)
	}
	return jobs, nil
}

// DeleteJob удаляет работу со всеми папками, файлами и полигонами.
// Объекты в хранилище удаляются после коммита, ошибки только логируются.
func (s *JobServiceImpl) DeleteJob(ctx context.Context, db *gorm.DB, jobID uint, requester *models.User) error {
	var paths []string

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job, err := s.jobRepo.FindByID(tx, jobID)
		if err != nil {
			return err
		}
		if job.UserID != requester.ID && requester.AccountType != models.AccountTypeAdmin {
			return appErrors.ErrForbidden
		}

		paths, err = s.fileRepo.FindPathsByJobID(tx, jobID)
		if err != nil {
			return err
		}
		return s.jobRepo.Delete(tx, jobID)
	})
	if err != nil {
		return mapJobError(err)
	}

	for _, p := range paths {
		if err := s.storage.Delete(ctx, p); err != nil {
			logger.CtxWithError(ctx, "Failed to remove stored file", err, "job_id", jobID, "path", p)
		}
	}

	logger.CtxInfo(ctx, "Job deleted", "job_id", jobID, "files", len(paths))
	return nil
}

// GetFolders возвращает 404 только если работы нет; пустой список - обычный ответ
func (s *JobServiceImpl) GetFolders(ctx context.Context, db *gorm.DB, jobID uint) ([]models.Folder, error) {
	db = db.WithContext(ctx)

	if err := s.ensureJobExists(db, jobID); err != nil {
		return nil, err
	}

	folders, err := s.folderRepo.FindByJobID(db, jobID)
	if err != nil {
		return nil, appErrors.DatabaseError(err)
	}
	return folders, nil
}

func (s *JobServiceImpl) CreateFolder(ctx context.Context, db *gorm.DB, jobID uint, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" || jobID == 0 {
		return nil, appErrors.NewBadRequestError("Folder name and job id are required")
	}
	db = db.WithContext(ctx)

	if err := s.ensureJobExists(db, jobID); err != nil {
		return nil, err
	}

	folder := &models.Folder{JobID: jobID, Name: name}
	if err := s.folderRepo.Create(db, folder); err != nil {
		return nil, appErrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Folder created", "job_id", jobID, "folder_id", folder.ID)
	return folder, nil
}

// GetFiles возвращает файлы папки с публичными URL
func (s *JobServiceImpl) GetFiles(ctx context.Context, db *gorm.DB, jobID, folderID uint) ([]models.File, error) {
	db = db.WithContext(ctx)

	if _, err := s.folderRepo.FindByIDAndJobID(db, folderID, jobID); err != nil {
		return nil, mapFolderError(err)
	}

	files, err := s.fileRepo.FindByJobIDAndFolderID(db, jobID, folderID)
	if err != nil {
		return nil, appErrors.DatabaseError(err)
	}
	for i := range files {
		files[i].URL = s.storage.GetURL(files[i].Path)
	}
	return files, nil
}

func (s *JobServiceImpl) ensureJobExists(db *gorm.DB, jobID uint) error {
	exists, err := s.jobRepo.Exists(db, jobID)
	if err != nil {
		return appErrors.DatabaseError(err)
	}
	if !exists {
		return appErrors.ErrJobNotFound
	}
	return nil
}

func mapJobError(err error) error {
	var appErr *appErrors.AppError
	switch {
	case appErrors.As(err, &appErr):
		return appErr
	case appErrors.Is(err, repositories.ErrJobNotFound):
		return appErrors.ErrJobNotFound
	default:
		return appErrors.DatabaseError(err)
	}
}

func mapFolderError(err error) error {
	if appErrors.Is(err, repositories.ErrFolderNotFound) {
		return appErrors.ErrFolderNotFound
	}
	return appErrors.DatabaseError(err)
}
