package dto

import (
	"io"
	"mime/multipart"
)

// UploadFile - один файл из multipart формы, независимо от транспорта
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromFileHeader адаптирует *multipart.FileHeader
func FromFileHeader(fh *multipart.FileHeader) UploadFile {
	return UploadFile{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FailedUpload - файл, который не удалось сохранить
type FailedUpload struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Message string `json:"error"`
	// HTTPCode используется, когда не удалось сохранить ни одного файла
	HTTPCode int `json:"-"`
}

// UploadResult агрегирует результаты по каждому файлу
type UploadResult[T any] struct {
	Uploaded []T            `json:"files"`
	Failed   []FailedUpload `json:"failed"`
}

// AllFailed сообщает, что ни один файл не был сохранен
func (r *UploadResult[T]) AllFailed() bool {
	return len(r.Uploaded) == 0 && len(r.Failed) > 0
}

// FirstFailure возвращает первую ошибку или nil
func (r *UploadResult[T]) FirstFailure() *FailedUpload {
	if len(r.Failed) == 0 {
		return nil
	}
	return &r.Failed[0]
}

// Partial сообщает, что часть файлов сохранена, а часть нет
func (r *UploadResult[T]) Partial() bool {
	return len(r.Uploaded) > 0 && len(r.Failed) > 0
}
