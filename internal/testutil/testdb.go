package testutil

import (
	"path/filepath"
	"testing"

	"skyjobs/database"
	"skyjobs/internal/auth"
	"skyjobs/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB создает SQLite базу во временной директории теста и мигрирует все таблицы
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := database.Open(database.Options{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err, "не удалось открыть тестовую БД")
	require.NoError(t, database.AutoMigrate(db), "не удалось выполнить миграцию")

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateUser создает подтвержденного пользователя с захешированным паролем
func CreateUser(t *testing.T, db *gorm.DB, username, password string, accountType models.AccountType) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Username:    username,
		Password:    hash,
		Email:       username + "@example.com",
		AccountType: accountType,
		Confirmed:   true,
	}
	require.NoError(t, db.Create(user).Error, "не удалось создать пользователя %s", username)
	return user
}

// CreateJob создает работу с папкой Images напрямую через gorm
func CreateJob(t *testing.T, db *gorm.DB, userID uint, title string) (*models.Job, *models.Folder) {
	t.Helper()

	job := &models.Job{Title: title, Status: models.JobStatusPending, UserID: userID}
	require.NoError(t, db.Create(job).Error)

	folder := &models.Folder{JobID: job.ID, Name: models.DefaultFolderName}
	require.NoError(t, db.Create(folder).Error)
	return job, folder
}
