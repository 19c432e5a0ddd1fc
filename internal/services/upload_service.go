package services

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"skyjobs/internal/appErrors"
	"skyjobs/internal/logger"
	"skyjobs/internal/models"
	"skyjobs/internal/repositories"
	"skyjobs/internal/services/dto"
	"skyjobs/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	jobFilesPrefix  = "jobs"
	certFilesPrefix = "certs"

	// multipartOverhead - запас на заголовки частей и границы multipart
	multipartOverhead = 1 << 20
)

type UploadService interface {
	// UploadJobFiles сохраняет файлы в папку работы; каждый файл обрабатывается независимо
	UploadJobFiles(ctx context.Context, db *gorm.DB, jobID, folderID uint, files []dto.UploadFile) (*dto.UploadResult[models.File], error)
	UploadCertFiles(ctx context.Context, db *gorm.DB, userID uint, files []dto.UploadFile) (*dto.UploadResult[models.CertFile], error)
	GetCertFiles(ctx context.Context, db *gorm.DB, userID uint) ([]models.CertFile, error)
	// MaxRequestBytes - верхняя граница тела multipart запроса
	MaxRequestBytes() int64
}

// UploadOptions - лимиты загрузки
type UploadOptions struct {
	MaxSize  int64
	MaxFiles int
}

// MaxRequestBytes возвращает максимальный размер тела запроса: все файлы
// максимального размера плюс запас на multipart. 0 означает без ограничения.
func (o UploadOptions) MaxRequestBytes() int64 {
	if o.MaxSize <= 0 || o.MaxFiles <= 0 {
		return 0
	}
	return o.MaxSize*int64(o.MaxFiles) + multipartOverhead
}

type UploadServiceImpl struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	certRepo   repositories.CertFileRepository
	storage    storage.Storage
	opts       UploadOptions
}

func NewUploadService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	certRepo repositories.CertFileRepository,
	store storage.Storage,
	opts UploadOptions,
) UploadService {
	return &UploadServiceImpl{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		certRepo:   certRepo,
		storage:    store,
		opts:       opts,
	}
}

func (s *UploadServiceImpl) UploadJobFiles(ctx context.Context, db *gorm.DB, jobID, folderID uint, files []dto.UploadFile) (*dto.UploadResult[models.File], error) {
	if err := s.checkBatch(files); err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)

	if _, err := s.folderRepo.FindByIDAndJobID(db, folderID, jobID); err != nil {
		return nil, mapFolderError(err)
	}

	result := storeAll(ctx, s, jobFilesPrefix, files, func(key string, f dto.UploadFile) (models.File, error) {
		row := models.File{
			JobID:       jobID,
			FolderID:    folderID,
			Name:        f.Name,
			Path:        key,
			Size:        f.Size,
			ContentType: f.ContentType,
		}
		if err := s.fileRepo.Create(db, &row); err != nil {
			return row, err
		}
		row.URL = s.storage.GetURL(key)
		return row, nil
	})

	logger.CtxInfo(ctx, "Job files uploaded",
		"job_id", jobID,
		"folder_id", folderID,
		"uploaded", len(result.Uploaded),
		"failed", len(result.Failed),
	)
	return result, nil
}

func (s *UploadServiceImpl) UploadCertFiles(ctx context.Context, db *gorm.DB, userID uint, files []dto.UploadFile) (*dto.UploadResult[models.CertFile], error) {
	if err := s.checkBatch(files); err != nil {
		return nil, err
	}
	db = db.WithContext(ctx)

	result := storeAll(ctx, s, certFilesPrefix, files, func(key string, f dto.UploadFile) (models.CertFile, error) {
		row := models.CertFile{
			UserID:      userID,
			Name:        f.Name,
			Path:        key,
			Size:        f.Size,
			ContentType: f.ContentType,
		}
		if err := s.certRepo.Create(db, &row); err != nil {
			return row, err
		}
		row.URL = s.storage.GetURL(key)
		return row, nil
	})

	logger.CtxInfo(ctx, "Certificates uploaded",
		"owner_id", userID,
		"uploaded", len(result.Uploaded),
		"failed", len(result.Failed),
	)
	return result, nil
}

func (s *UploadServiceImpl) GetCertFiles(ctx context.Context, db *gorm.DB, userID uint) ([]models.CertFile, error) {
	certs, err := s.certRepo.FindByUserID(db.WithContext(ctx), userID)
	if err != nil {
		return nil, appErrors.DatabaseError(err)
	}
	for i := range certs {
		certs[i].URL = s.storage.GetURL(certs[i].Path)
	}
	return certs, nil
}

func (s *UploadServiceImpl) MaxRequestBytes() int64 {
	return s.opts.MaxRequestBytes()
}

func (s *UploadServiceImpl) checkBatch(files []dto.UploadFile) error {
	if len(files) == 0 {
		return appErrors.ErrNoFiles
	}
	if s.opts.MaxFiles > 0 && len(files) > s.opts.MaxFiles {
		return appErrors.NewBadRequestError(fmt.Sprintf("Too many files, at most %d per request", s.opts.MaxFiles))
	}
	return nil
}

// storeAll сохраняет каждый файл и вызывает persist для записи строки в БД.
// Если persist вернул ошибку, объект удаляется из хранилища.
func storeAll[T any](
	ctx context.Context,
	s *UploadServiceImpl,
	prefix string,
	files []dto.UploadFile,
	persist func(key string, f dto.UploadFile) (T, error),
) *dto.UploadResult[T] {
	result := &dto.UploadResult[T]{
		Uploaded: make([]T, 0, len(files)),
		Failed:   make([]dto.FailedUpload, 0),
	}

	for _, f := range files {
		f.Name = sanitizeFileName(f.Name)
		if f.ContentType == "" {
			f.ContentType = detectContentType(f.Name)
		}

		key, appErr := s.storeOne(ctx, prefix, f)
		if appErr != nil {
			result.Failed = append(result.Failed, failure(f.Name, appErr))
			continue
		}

		item, err := persist(key, f)
		if err != nil {
			if delErr := s.storage.Delete(ctx, key); delErr != nil {
				logger.CtxWithError(ctx, "Failed to remove orphaned file", delErr, "path", key)
			}
			dbErr := appErrors.DatabaseError(err)
			logger.CtxWithError(ctx, "Failed to record uploaded file", err, "name", f.Name)
			result.Failed = append(result.Failed, failure(f.Name, dbErr))
			continue
		}
		result.Uploaded = append(result.Uploaded, item)
	}
	return result
}

func (s *UploadServiceImpl) storeOne(ctx context.Context, prefix string, f dto.UploadFile) (string, *appErrors.AppError) {
	if s.opts.MaxSize > 0 && f.Size > s.opts.MaxSize {
		return "", appErrors.ErrFileTooLarge
	}

	key := prefix + "/" + uuid.NewString() + fileExtension(f.Name)

	reader, err := f.Open()
	if err != nil {
		return "", appErrors.FileSystemError(err)
	}
	defer reader.Close()

	if err := s.storage.Save(ctx, key, reader, f.Size, f.ContentType); err != nil {
		logger.CtxWithError(ctx, "Failed to store file", err, "name", f.Name, "path", key)
		return "", appErrors.FileSystemError(err)
	}
	return key, nil
}

func failure(name string, err *appErrors.AppError) dto.FailedUpload {
	return dto.FailedUpload{
		Name:     name,
		Code:     string(err.Code),
		Message:  err.Message,
		HTTPCode: err.HTTPCode,
	}
}

// sanitizeFileName оставляет только базовое имя, без клиентских путей
func sanitizeFileName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}

// fileExtension возвращает расширение в нижнем регистре, если оно безопасно для ключа хранилища
func fileExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 || len(ext) > 16 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func detectContentType(name string) string {
	if ct := mime.TypeByExtension(fileExtension(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
