package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/Kamar-Folarin/repo-mirror/internal/errors"
	"github.com/Kamar-Folarin/repo-mirror/internal/mirror"
	"github.com/Kamar-Folarin/repo-mirror/internal/models"
)

// Syncer runs git operations
type Syncer interface {
	Execute(ctx context.Context, req models.SyncRequest) *models.SyncResult
}

// RepositoryReader serves the read-only registry views
type RepositoryReader interface {
	GetRepository(ctx context.Context, id string) (*models.RepositoryRecord, error)
	ListRepositories(ctx context.Context) ([]*models.RepositoryRecord, error)
}

type Handler struct {
	syncer       Syncer
	repositories RepositoryReader
	logger       *logrus.Logger
}

func NewHandler(syncer Syncer, repositories RepositoryReader, logger *logrus.Logger) *Handler {
	return &Handler{
		syncer:       syncer,
		repositories: repositories,
		logger:       logger,
	}
}

// CreateGitOperation godoc
// @Summary Run a git operation
// @Description Clone the source repository, push it to the target, verify the target HEAD and record the sync
// @Tags git-operations
// @Accept json
// @Produce json
// @Param request body GitOperationRequest true "Operation request"
// @Success 200 {object} GitOperationResponse
// @Failure 500 {object} GitOperationResponse
// @Router /git-operations [post]
func (h *Handler) CreateGitOperation(c *gin.Context) {
	var req models.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Rejected git operation with unreadable body")
		c.JSON(http.StatusInternalServerError, invalidBody(err))
		return
	}

	result := h.syncer.Execute(c.Request.Context(), req)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, result)
}

func invalidBody(err error) *models.SyncResult {
	verr := apperrors.NewValidationError("Invalid request body", err)
	details := mirror.DescribeError(verr)
	now := time.Now().UTC()

	return &models.SyncResult{
		Success: false,
		Logs: []models.LogEntry{{
			Type:      models.LogError,
			Message:   "Operation failed",
			Data:      map[string]string{"name": details.Name, "message": details.Message},
			Timestamp: now,
		}},
		Error:     verr.Message,
		Details:   details,
		Timestamp: now,
	}
}

// ListRepositories godoc
// @Summary List registry repositories
// @Tags repositories
// @Produce json
// @Success 200 {array} Repository
// @Failure 500 {object} ErrorResponse
// @Router /repositories [get]
func (h *Handler) ListRepositories(c *gin.Context) {
	repos, err := h.repositories.ListRepositories(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list repositories")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list repositories"})
		return
	}

	c.JSON(http.StatusOK, repos)
}

// GetRepository godoc
// @Summary Get a registry repository
// @Tags repositories
// @Produce json
// @Param id path string true "Repository ID"
// @Success 200 {object} Repository
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /repositories/{id} [get]
func (h *Handler) GetRepository(c *gin.Context) {
	repo, err := h.repositories.GetRepository(c.Request.Context(), c.Param("id"))
	if err != nil {
		var notFound *apperrors.NotFoundError
		if stderrors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Repository not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to get repository")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get repository"})
		return
	}

	c.JSON(http.StatusOK, repo)
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
