package handlers

import (
	"net/http"

	"skyjobs/internal/appErrors"
	"skyjobs/internal/services"
	"skyjobs/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	jobs := rg.Group("/jobs")
	jobs.Use(authMW)
	{
		jobs.POST("", h.CreateJob)
		jobs.GET("", h.GetJobList)
		jobs.GET("/:id", h.GetJobDetail)
		jobs.DELETE("/:id", h.DeleteJob)

		jobs.GET("/:id/folders", h.GetFolders)
		jobs.POST("/:id/folders", h.CreateFolder)
		jobs.GET("/:id/folders/:folderId/files", h.GetFiles)
	}
}

// CreateJob godoc
// @Summary Создать работу
// @Description Создает работу, папку Images и полигоны в одной транзакции
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateJobRequest true "Данные работы"
// @Success 200 {object} dto.CreateJobResponse
// @Failure 400 {object} appErrors.ErrorResponse
// @Failure 403 {object} appErrors.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	ownerID, ok := h.GetAndAuthorizeUserID(c, req.UserID)
	if !ok {
		return
	}

	db := h.GetDB(c)

	job, err := h.jobService.CreateJob(c.Request.Context(), db, ownerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CreateJobResponse{
		Success: true,
		JobID:   job.ID,
		Message: "Job created successfully",
	})
}

// GetJobList godoc
// @Summary Работы пользователя
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param userId query int false "ID пользователя (должен совпадать с токеном)"
// @Success 200 {object} map[string]interface{}
// @Router /jobs [get]
func (h *JobHandler) GetJobList(c *gin.Context) {
	requested, err := ParseQueryUint(c, "userId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	userID, ok := h.GetAndAuthorizeUserID(c, requested)
	if !ok {
		return
	}

	jobs, err := h.jobService.GetJobList(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "jobs": jobs})
}

// GetJobDetail godoc
// @Summary Работа с полигонами
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID работы"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} appErrors.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJobDetail(c *gin.Context) {
	jobID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	job, err := h.jobService.GetJobDetail(c.Request.Context(), h.GetDB(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "job": job})
}

// DeleteJob удаляет работу; доступно владельцу и администратору
func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), h.GetDB(c), jobID, user); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Job deleted successfully"})
}

// GetFolders godoc
// @Summary Папки работы
// @Tags folders
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID работы"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} appErrors.ErrorResponse
// @Router /jobs/{id}/folders [get]
func (h *JobHandler) GetFolders(c *gin.Context) {
	jobID, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	folders, err := h.jobService.GetFolders(c.Request.Context(), h.GetDB(c), jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "folders": folders})
}

// CreateFolder godoc
// @Summary Создать папку
// @Tags folders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID работы"
// @Param request body dto.CreateFolderRequest true "Имя папки"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} appErrors.ErrorResponse
// @Failure 404 {object} appErrors.ErrorResponse
// @Router /jobs/{id}/folders [post]
func (h *JobHandler) CreateFolder(c *gin.Context) {
	jobID, err := ParseParamUint(c, "id")
	if err != nil {
		appErrors.HandleError(c, appErrors.NewBadRequestError("Folder name and job id are required"))
		return
	}

	var req dto.CreateFolderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	folder, err := h.jobService.CreateFolder(c.Request.Context(), h.GetDB(c), jobID, req.Name)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Folder created successfully",
		"folder":  folder,
	})
}

// GetFiles godoc
// @Summary Файлы папки
// @Tags folders
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID работы"
// @Param folderId path int true "ID папки"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} appErrors.ErrorResponse
// @Router /jobs/{id}/folders/{folderId}/files [get]
func (h *JobHandler) GetFiles(c *gin.Context) {
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

	files, err := h.jobService.GetFiles(c.Request.Context(), h.GetDB(c), jobID, folderID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "files": files})
}
