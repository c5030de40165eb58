package handler

import (
	"io"
	"net/http"

	"obrafacil/internal/middleware"
	"obrafacil/internal/model"
	"obrafacil/internal/service"
	"obrafacil/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxBackupSize caps restore payloads at 32 MiB. Photo data is inlined in the
// snapshot, so real exports can get large.
const maxBackupSize = 32 << 20

type BackupHandler struct {
	backupService service.BackupService
}

func NewBackupHandler(backupService service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

func (h *BackupHandler) RegisterRoutes(router *gin.RouterGroup) {
	backup := router.Group("/backup")
	backup.Use(middleware.RequireRole(model.RoleAdmin))
	{
		backup.GET("/export", h.Export)
		backup.POST("/restore", h.Restore)
	}
}

// Export handles GET /backup/export
// @Summary      Export backup
// @Description  Dumps the whole application state, user directory included, as a single snapshot
// @Tags         backup
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.Snapshot
// @Failure      500  {object}  response.Response
// @Router       /backup/export [get]
func (h *BackupHandler) Export(c *gin.Context) {
	snapshot, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to export backup"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="obrafacil-backup.json"`)
	c.JSON(http.StatusOK, snapshot)
}

// Restore handles POST /backup/restore
// @Summary      Restore backup
// @Description  Replaces the stored state with the uploaded snapshot. A corrupt snapshot restores the defaults instead of failing.
// @Tags         backup
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.RestoreResult}
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /backup/restore [post]
func (h *BackupHandler) Restore(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBackupSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read payload"))
		return
	}

	result, err := h.backupService.Restore(c.Request.Context(), middleware.ActorFromContext(c), raw)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to restore backup"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
