package repositories

import (
	"errors"

	"skyjobs/internal/models"

	"gorm.io/gorm"
)

var ErrFolderNotFound = errors.New("folder not found")

type FolderRepository interface {
	Create(db *gorm.DB, folder *models.Folder) error
	FindByJobID(db *gorm.DB, jobID uint) ([]models.Folder, error)
	// FindByIDAndJobID находит папку только если она принадлежит работе
	FindByIDAndJobID(db *gorm.DB, folderID, jobID uint) (*models.Folder, error)
}

type FileRepository interface {
	Create(db *gorm.DB, file *models.File) error
	FindByJobIDAndFolderID(db *gorm.DB, jobID, folderID uint) ([]models.File, error)
	FindPathsByJobID(db *gorm.DB, jobID uint) ([]string, error)
}

type CertFileRepository interface {
	Create(db *gorm.DB, cert *models.CertFile) error
	FindByUserID(db *gorm.DB, userID uint) ([]models.CertFile, error)
}

// ---------------------------------------------------------------------------
// Folders
// ---------------------------------------------------------------------------

type FolderRepositoryImpl struct{}

func NewFolderRepository() FolderRepository {
	return &FolderRepositoryImpl{}
}

func (r *FolderRepositoryImpl) Create(db *gorm.DB, folder *models.Folder) error {
	return db.Create(folder).Error
}

func (r *FolderRepositoryImpl) FindByJobID(db *gorm.DB, jobID uint) ([]models.Folder, error) {
	folders := make([]models.Folder, 0)
	if err := db.Where("job_id = ?", jobID).Order("id ASC").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *FolderRepositoryImpl) FindByIDAndJobID(db *gorm.DB, folderID, jobID uint) (*models.Folder, error) {
	var folder models.Folder
	if err := db.Where("id = ? AND job_id = ?", folderID, jobID).First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}
	return &folder, nil
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

type FileRepositoryImpl struct{}

func NewFileRepository() FileRepository {
	return &FileRepositoryImpl{}
}

func (r *FileRepositoryImpl) Create(db *gorm.DB, file *models.File) error {
	return db.Create(file).Error
}

func (r *FileRepositoryImpl) FindByJobIDAndFolderID(db *gorm.DB, jobID, folderID uint) ([]models.File, error) {
	files := make([]models.File, 0)
	err := db.Where("job_id = ? AND folder_id = ?", jobID, folderID).Order("id ASC").Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepositoryImpl) FindPathsByJobID(db *gorm.DB, jobID uint) ([]string, error) {
	paths := make([]string, 0)
	if err := db.Model(&models.File{}).Where("job_id = ?", jobID).Pluck("path", &paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

// ---------------------------------------------------------------------------
// Certificates
// ---------------------------------------------------------------------------

type CertFileRepositoryImpl struct{}

func NewCertFileRepository() CertFileRepository {
	return &CertFileRepositoryImpl{}
}

func (r *CertFileRepositoryImpl) Create(db *gorm.DB, cert *models.CertFile) error {
	return db.Create(cert).Error
}

func (r *CertFileRepositoryImpl) FindByUserID(db *gorm.DB, userID uint) ([]models.CertFile, error) {
	certs := make([]models.CertFile, 0)
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}
