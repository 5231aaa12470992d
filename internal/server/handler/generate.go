package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tvertner/Leonne.net/internal/common"
	"github.com/tvertner/Leonne.net/internal/job"
	"github.com/tvertner/Leonne.net/pkg/api"
)

type GenerateHandler struct {
	jobs *job.Service
}

func NewGenerateHandler(jobs *job.Service) *GenerateHandler {
	return &GenerateHandler{jobs: jobs}
}

// Start triggers the full pipeline and returns immediately. A second
// start while a run is in flight gets a 409 and does not disturb the run.
func (h *GenerateHandler) Start(c *gin.Context) {
	record, err := h.jobs.Start()
	if err != nil {
		e := common.ConvertErr(err)
		if e.ErrCode == common.GenerationBusy {
			resp := api.BusyResponse{Status: "busy", Message: e.ErrMsg}
			if current, ok := h.jobs.Status(); ok {
				resp.StartedAt = current.StartedAt.Format(time.RFC3339)
			}
			c.JSON(http.StatusConflict, resp)
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Status: "error", Message: e.ErrMsg})
		return
	}

	c.JSON(http.StatusAccepted, api.StartResponse{
		Status:    "started",
		RunID:     record.ID,
		StartedAt: record.StartedAt.Format(time.RFC3339),
		Message:   "Edition generation started. Check /generate/status for progress.",
	})
}

// Status reports the newest run: running with a partial stage log, or
// done with the terminal result.
func (h *GenerateHandler) Status(c *gin.Context) {
	record, ok := h.jobs.Status()
	if !ok {
		c.JSON(http.StatusOK, api.StatusResponse{Status: "idle"})
		return
	}

	resp := api.StatusResponse{
		RunID:     record.ID,
		StartedAt: record.StartedAt.Format(time.RFC3339),
	}
	if record.Terminal() {
		resp.Status = "done"
		resp.LastResult = toRunResult(record)
	} else {
		resp.Status = "running"
	}
	c.JSON(http.StatusOK, resp)
}

// Done is the Shortcuts-friendly poll: plain "yes", "no", or "error".
func (h *GenerateHandler) Done(c *gin.Context) {
	record, ok := h.jobs.Status()
	switch {
	case ok && !record.Terminal():
		c.String(http.StatusOK, "no")
	case ok && record.Success:
		c.String(http.StatusOK, "yes")
	default:
		c.String(http.StatusOK, "error")
	}
}

func toRunResult(record job.RunRecord) *api.RunResult {
	result := &api.RunResult{
		Success:    record.Success,
		Warning:    record.Warning,
		Summary:    record.Summary,
		Stages:     make([]api.StageSummary, 0, len(record.Stages)),
		FinishedAt: record.FinishedAt.Format(time.RFC3339),
	}
	if record.Cause != "" {
		cause := record.Cause
		result.Cause = &cause
	}
	for _, res := range record.Stages {
		result.Stages = append(result.Stages, api.StageSummary{
			Name:     res.Name,
			Status:   string(res.Status),
			Cause:    res.Cause,
			Duration: res.Duration.Round(time.Millisecond).String(),
		})
	}
	return result
}
