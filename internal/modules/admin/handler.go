package admin

import (
	"context"
	"net/http"
	"strings"

	"filemeta/internal/domain"
	"filemeta/internal/middleware"
	"filemeta/internal/modules/access"
	"filemeta/internal/modules/files"
	"filemeta/internal/pkg/response"
	"filemeta/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	gateway *access.Gateway
}

func NewHandler(service *Service, gateway *access.Gateway) *Handler {
	return &Handler{service: service, gateway: gateway}
}

// RegisterRoutes mounts the administrative file routes on admin, which must
// already carry JWTAuth and ResolveActor. Privilege is checked by the service.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/files", h.ListFiles)
	admin.GET("/files/stats", h.Statistics)
	admin.GET("/files/:id", h.GetFile)
	admin.PATCH("/files/:id/status", h.UpdateStatus)
	admin.PATCH("/files/:id/storage-key", h.UpdateStorageKey)
	admin.DELETE("/files/:id", h.DeleteFile)
}

// ListFiles godoc
// @Summary List files by owner or by status
// @Description Exactly one of owner_id or status is required.
// @Tags Admin - Files
// @Produce json
// @Security BearerAuth
// @Param owner_id query string false "Owner user ID"
// @Param status query string false "Status name, case-insensitive"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403 {object} map[string]interface{}
// @Router /admin/files [get]
func (h *Handler) ListFiles(c *gin.Context) {
	actor := middleware.Actor(c)
	ownerID := strings.TrimSpace(c.Query("owner_id"))
	status := strings.TrimSpace(c.Query("status"))

	var (
		recs []domain.FileRecord
		err  error
	)
	switch {
	case ownerID != "" && status == "":
		recs, err = h.service.ListByOwner(c.Request.Context(), ownerID, actor)
	case status != "" && ownerID == "":
		recs, err = h.service.GetByStatus(c.Request.Context(), status, actor)
	default:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Exactly one of owner_id or status is required")
		return
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	items := make([]files.FileResponse, 0, len(recs))
	for i := range recs {
		items = append(items, files.ToFileResponse(&recs[i], ""))
	}
	response.Success(c, http.StatusOK, gin.H{"files": items, "count": len(items)})
}

// Statistics godoc
// @Summary File counts per status
// @Description Global counts, or the counts of one owner when owner_id is set.
// @Tags Admin - Files
// @Produce json
// @Security BearerAuth
// @Param owner_id query string false "Owner user ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /admin/files/stats [get]
func (h *Handler) Statistics(c *gin.Context) {
	actor := middleware.Actor(c)

	var (
		st  domain.FileStatistics
		err error
	)
	if ownerID := strings.TrimSpace(c.Query("owner_id")); ownerID != "" {
		st, err = h.service.StatisticsFor(c.Request.Context(), ownerID, actor)
	} else {
		st, err = h.service.GlobalStatistics(c.Request.Context(), actor)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// GetFile godoc
// @Summary Get any file
// @Tags Admin - Files
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403,404 {object} map[string]interface{}
// @Router /admin/files/{id} [get]
func (h *Handler) GetFile(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("id"), middleware.Actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, files.ToFileResponse(rec, h.ownerName(c.Request.Context(), rec.OwnerID)))
}

// UpdateStatus godoc
// @Summary Move any file to another status
// @Description Lifecycle rules apply to administrators too.
// @Tags Admin - Files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Param body body files.UpdateStatusRequest true "New status"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404,409 {object} map[string]interface{}
// @Router /admin/files/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req files.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}

	rec, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, middleware.Actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, files.ToFileResponse(rec, h.ownerName(c.Request.Context(), rec.OwnerID)))
}

// UpdateStorageKey godoc
// @Summary Re-point a file at another storage key
// @Tags Admin - Files
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Param body body files.UpdateStorageKeyRequest true "New storage key"
// @Success 200 {object} map[string]interface{}
// @Failure 400,403,404,409 {object} map[string]interface{}
// @Router /admin/files/{id}/storage-key [patch]
func (h *Handler) UpdateStorageKey(c *gin.Context) {
	var req files.UpdateStorageKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}

	rec, err := h.service.UpdateStorageKey(c.Request.Context(), c.Param("id"), req.StorageKey, middleware.Actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, files.ToFileResponse(rec, h.ownerName(c.Request.Context(), rec.OwnerID)))
}

// DeleteFile godoc
// @Summary Delete any file
// @Tags Admin - Files
// @Produce json
// @Security BearerAuth
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403,404 {object} map[string]interface{}
// @Router /admin/files/{id} [delete]
func (h *Handler) DeleteFile(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), middleware.Actor(c)); err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "deleted"})
}

// ownerName is best effort: a record may outlive its owner in the directory.
func (h *Handler) ownerName(ctx context.Context, ownerID string) string {
	u, err := h.gateway.ResolveUser(ctx, ownerID)
	if err != nil {
		return ""
	}
	return u.Name
}
