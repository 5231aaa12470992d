package handler

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tvertner/Leonne.net/internal/common"
	"github.com/tvertner/Leonne.net/internal/edition"
	"github.com/tvertner/Leonne.net/pkg/api"
)

// minEditionSize rejects obviously broken payloads before they replace
// the live edition. A real page is tens of kilobytes.
const minEditionSize = 100

type DeployHandler struct {
	publisher *edition.Publisher
	workDir   string
}

func NewDeployHandler(publisher *edition.Publisher, workDir string) *DeployHandler {
	return &DeployHandler{publisher: publisher, workDir: workDir}
}

// Deploy receives rendered HTML from the generate stage and swaps it in
// as the live edition, archiving the previous one.
func (h *DeployHandler) Deploy(c *gin.Context) {
	html, err := c.GetRawData()
	if err != nil || len(bytes.TrimSpace(html)) < minEditionSize {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Status:  "error",
			Message: common.ConvertErr(common.NewErrNo(common.ContentTooShort)).ErrMsg,
		})
		return
	}

	now := time.Now()
	if err := h.publisher.Publish(html, now); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Status: "error", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.DeployResponse{
		Status:    "ok",
		Message:   "Edition deployed",
		Timestamp: now.Format(time.RFC3339),
	})
}

// DeployFile drops a stage script into the work dir. Only bare .py and
// .sh filenames are accepted; anything resembling a path is rejected
// before it can escape the directory.
func (h *DeployHandler) DeployFile(c *gin.Context) {
	var req api.DeployFileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Filename == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Status: "error", Message: "missing filename or content"})
		return
	}
	if strings.ContainsAny(req.Filename, `/\`) || strings.Contains(req.Filename, "..") {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Status: "error", Message: "invalid filename"})
		return
	}
	if !strings.HasSuffix(req.Filename, ".py") && !strings.HasSuffix(req.Filename, ".sh") {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Status: "error", Message: "only .py and .sh files allowed"})
		return
	}

	target := filepath.Join(h.workDir, req.Filename)
	if err := os.WriteFile(target, []byte(req.Content), 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Status: "error", Message: err.Error()})
		return
	}
	if strings.HasSuffix(req.Filename, ".sh") {
		if err := os.Chmod(target, 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Status: "error", Message: err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, api.DeployFileResponse{
		Status: "ok",
		File:   target,
		Size:   len(req.Content),
	})
}

// Health is the unauthenticated liveness probe.
func (h *DeployHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Status:               "running",
		CurrentEditionExists: h.publisher.EditionExists(),
		BackupCount:          h.publisher.BackupCount(),
	})
}
