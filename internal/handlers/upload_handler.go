package handlers

import (
	"errors"
	"net/http"

	"skyjobs/internal/appErrors"
	"skyjobs/internal/logger"
	"skyjobs/internal/services"
	"skyjobs/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// filesField - имя multipart поля с файлами
const filesField = "files"

// ============================================
// UPLOAD HANDLER
// ============================================

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

// ============================================
// ROUTES
// ============================================

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/jobs/:id/folders/:folderId/files", authMW, h.UploadJobFiles)

	pilot := rg.Group("/pilot")
	pilot.Use(authMW)
	{
		pilot.GET("/profile", h.GetPilotProfile)
		pilot.POST("/profile/certs", h.UploadCertFiles)
	}
}

// ============================================
// HANDLERS
// ============================================

// UploadJobFiles godoc
// @Summary Загрузка файлов в папку работы
// @Description 200 если сохранены все файлы, 207 если часть
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID работы"
// @Param folderId path int true "ID папки"
// @Param files formData file true "Файлы"
// @Success 200 {object} map[string]interface{}
// @Success 207 {object} map[string]interface{}
// @Failure 400 {object} appErrors.ErrorResponse
// @Failure 404 {object} appErrors.ErrorResponse
// @Failure 413 {object} appErrors.ErrorResponse
// @Router /jobs/{id}/folders/{folderId}/files [post]
func (h *UploadHandler) UploadJobFiles(c *gin.Context) {
	jobID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	folderID, err := ParseParamUint(c, "folderId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	files, ok := h.multipartFiles(c)
	if !ok {
		return
	}

	result, err := h.uploadService.UploadJobFiles(c.Request.Context(), h.GetDB(c), jobID, folderID, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondUpload(c, result)
}

// UploadCertFiles - загрузка документов сертификации пилота
func (h *UploadHandler) UploadCertFiles(c *gin.Context) {
	requested, err := ParseQueryUint(c, "userId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	userID, ok := h.GetAndAuthorizeUserID(c, requested)
	if !ok {
		return
	}

	files, ok := h.multipartFiles(c)
	if !ok {
		return
	}

	result, err := h.uploadService.UploadCertFiles(c.Request.Context(), h.GetDB(c), userID, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondUpload(c, result)
}

// GetPilotProfile godoc
// @Summary Сертификаты пилота
// @Tags pilot
// @Produce json
// @Security BearerAuth
// @Param userId query int false "ID пользователя (должен совпадать с токеном)"
// @Success 200 {object} map[string]interface{}
// @Router /pilot/profile [get]
func (h *UploadHandler) GetPilotProfile(c *gin.Context) {
	requested, err := ParseQueryUint(c, "userId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	userID, ok := h.GetAndAuthorizeUserID(c, requested)
	if !ok {
		return
	}

	certs, err := h.uploadService.GetCertFiles(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "certs": certs})
}

// multipartFiles читает поле files; запрос без файлов дает 400.
// Тело ограничено до разбора, чтобы лишние байты не попадали в память и на диск.
func (h *UploadHandler) multipartFiles(c *gin.Context) ([]dto.UploadFile, bool) {
	if limit := h.uploadService.MaxRequestBytes(); limit > 0 {
		if c.Request.ContentLength > limit {
			appErrors.HandleError(c, appErrors.ErrBodyTooLarge)
			return nil, false
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			logger.CtxWarn(c.Request.Context(), "Upload body exceeds limit", "limit", maxErr.Limit)
			appErrors.HandleError(c, appErrors.ErrBodyTooLarge)
			return nil, false
		}
		if !errors.Is(err, http.ErrNotMultipart) && !errors.Is(err, http.ErrMissingBoundary) {
			logger.CtxWarn(c.Request.Context(), "Failed to parse multipart form", "error", err.Error())
		}
		appErrors.HandleError(c, appErrors.ErrNoFiles)
		return nil, false
	}

	headers := form.File[filesField]
	if len(headers) == 0 {
		appErrors.HandleError(c, appErrors.ErrNoFiles)
		return nil, false
	}

	files := make([]dto.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, dto.FromFileHeader(fh))
	}
	return files, true
}

// respondUpload выбирает статус по агрегированному результату:
// 200 - все файлы сохранены, 207 - часть, иначе статус первой ошибки
func respondUpload[T any](c *gin.Context, result *dto.UploadResult[T]) {
	switch {
	case result.AllFailed():
		first := result.FirstFailure()
		c.JSON(first.HTTPCode, gin.H{
			"success": false,
			"code":    first.Code,
			"message": "No files were uploaded",
			"files":   result.Uploaded,
			"failed":  result.Failed,
		})
	case result.Partial():
		c.JSON(http.StatusMultiStatus, gin.H{
			"success": true,
			"message": "Some files failed to upload",
			"files":   result.Uploaded,
			"failed":  result.Failed,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Files uploaded successfully",
			"files":   result.Uploaded,
			"failed":  result.Failed,
		})
	}
}
