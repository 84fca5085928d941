package handler

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/derbent/backend/internal/domain/registry"
	"github.com/derbent/backend/internal/infrastructure/logger"
	"github.com/derbent/backend/internal/infrastructure/scheduler"
	"github.com/derbent/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pinger checks a backing dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// HousekeepingTrigger starts housekeeping jobs on demand
type HousekeepingTrigger interface {
	TriggerCompany(companyID uuid.UUID, jobType scheduler.JobType) error
	Status() scheduler.TriggerStatus
}

// SystemHandler serves health probes, build information and the entity
// catalogue
type SystemHandler struct {
	BaseHandler
	name         string
	version      string
	db           Pinger
	housekeeping HousekeepingTrigger
	startTime    time.Time
}

// NewSystemHandler creates a new system handler. housekeeping may be nil
// when the scheduler is disabled.
func NewSystemHandler(name, version string, db Pinger, housekeeping HousekeepingTrigger) *SystemHandler {
	return &SystemHandler{
		name:         name,
		version:      version,
		db:           db,
		housekeeping: housekeeping,
		startTime:    time.Now(),
	}
}

// HealthResponse is the body of the health probes
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Database string `json:"database,omitempty" example:"up"`
}

// Live godoc
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health/live [get]
func (h *SystemHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Fails while the database is unreachable
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health/ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.FromContext(c.Request.Context()).Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Database: "down"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Database: "up"})
}

// SystemInfoResponse describes the running build
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Derbent"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Info godoc
// @Summary      System information
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Router       /system/info [get]
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Entities godoc
// @Summary      Entity catalogue
// @Description  Titles, icons and capabilities of every entity type
// @Tags         meta
// @Produce      json
// @Success      200 {object} dto.Response{data=[]registry.Descriptor}
// @Security     BearerAuth
// @Router       /meta/entities [get]
func (h *SystemHandler) Entities(c *gin.Context) {
	h.Success(c, registry.All())
}

// HousekeepingStatus godoc
// @Summary      Housekeeping status
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=scheduler.TriggerStatus}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/housekeeping [get]
func (h *SystemHandler) HousekeepingStatus(c *gin.Context) {
	if h.housekeeping == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, "Housekeeping is disabled")
		return
	}
	h.Success(c, h.housekeeping.Status())
}

// RunHousekeeping godoc
// @Summary      Run housekeeping now
// @Description  Queues the housekeeping jobs for the caller's company. job_type selects a single job.
// @Tags         admin
// @Produce      json
// @Param        job_type query string false "OVERDUE_SCAN, SPRINT_VELOCITY or FINANCIAL_SNAPSHOT"
// @Success      202 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/housekeeping/run [post]
func (h *SystemHandler) RunHousekeeping(c *gin.Context) {
	who, ok := h.caller(c)
	if !ok {
		return
	}
	if h.housekeeping == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, "Housekeeping is disabled")
		return
	}

	jobType := scheduler.JobType(c.Query("job_type"))
	err := h.housekeeping.TriggerCompany(who.TenantID, jobType)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, dto.NewSuccessResponse(gin.H{"company_id": who.TenantID, "job_type": jobType}))
	case errors.Is(err, scheduler.ErrInvalidJobType):
		h.BadRequest(c, "Unknown job_type")
	case errors.Is(err, scheduler.ErrSchedulerNotRunning), errors.Is(err, scheduler.ErrJobQueueFull):
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, err.Error())
	default:
		h.HandleError(c, err)
	}
}
