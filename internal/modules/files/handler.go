package files

import (
	"net/http"

	"filemeta/internal/middleware"
	"filemeta/internal/pkg/response"
	"filemeta/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler exposes the caller's own files. Every route expects JWTAuth and
// ResolveActor in front of it.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	files := rg.Group("/files")
	{
		files.POST("", h.Create)
		files.GET("", h.ListMy)
		files.GET("/stats", h.MyStatistics)
		files.GET("/:id", h.GetByID)
		files.PATCH("/:id/status", h.UpdateStatus)
		files.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary Register file metadata
// @Description Creates a record in status UPLOADED with a generated storage key. owner_id must be the caller.
// @Tags Files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateFileRequest true "File metadata"
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,403,409,500 {object} map[string]interface{}
// @Router /files [post]
func (h *Handler) Create(c *gin.Context) {
	actor := middleware.Actor(c)

	var req CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}

	rec, err := h.service.Create(c.Request.Context(), NewFile{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
		OwnerID:     req.OwnerID,
	}, actor)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, ToFileResponse(rec, actor.Name))
}

// ListMy godoc
// @Summary List my files
// @Tags Files
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /files [get]
func (h *Handler) ListMy(c *gin.Context) {
	actor := middleware.Actor(c)

	recs, err := h.service.ListByOwner(c.Request.Context(), actor.ID, actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToFileResponses(recs, actor.Name))
}

// MyStatistics godoc
// @Summary Count my files per status
// @Tags Files
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /files/stats [get]
func (h *Handler) MyStatistics(c *gin.Context) {
	actor := middleware.Actor(c)

	st, err := h.service.StatisticsFor(c.Request.Context(), actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// GetByID godoc
// @Summary Get one of my files
// @Tags Files
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403,404 {object} map[string]interface{}
// @Router /files/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	actor := middleware.Actor(c)

	rec, err := h.service.Get(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToFileResponse(rec, actor.Name))
}

// UpdateStatus godoc
// @Summary Move one of my files to another status
// @Description Status names are case-insensitive. Allowed: UPLOADED->PROCESSING, PROCESSING->READY, PROCESSING->FAILED.
// @Tags Files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404,409 {object} map[string]interface{}
// @Router /files/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	actor := middleware.Actor(c)

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}

	rec, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToFileResponse(rec, actor.Name))
}

// Delete godoc
// @Summary Delete one of my files
// @Tags Files
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403,404,500 {object} map[string]interface{}
// @Router /files/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), actor); err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "deleted"})
}
