package api

// Wire types shared by the server handlers and the CLI client.

type StartResponse struct {
	Status    string `json:"status"` // started
	RunID     int64  `json:"run_id"`
	StartedAt string `json:"started_at"`
	Message   string `json:"message,omitempty"`
}

type BusyResponse struct {
	Status    string `json:"status"` // busy
	Message   string `json:"message,omitempty"`
	StartedAt string `json:"started_at,omitempty"` // when the in-flight run began
}

type ErrorResponse struct {
	Status  string `json:"status"` // unauthorized / error
	Message string `json:"message,omitempty"`
}

type StageSummary struct {
	Name     string `json:"name"`
	Status   string `json:"status"` // success / failed / skipped
	Cause    string `json:"cause,omitempty"`
	Duration string `json:"duration,omitempty"`
}

type RunResult struct {
	Success    bool           `json:"success"`
	Cause      *string        `json:"cause"`
	Warning    string         `json:"warning,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Stages     []StageSummary `json:"stages"`
	FinishedAt string         `json:"finished_at,omitempty"`
}

type StatusResponse struct {
	Status     string     `json:"status"` // idle / running / done
	RunID      int64      `json:"run_id,omitempty"`
	StartedAt  string     `json:"started_at,omitempty"`
	LastResult *RunResult `json:"last_result,omitempty"`
}

type DeployResponse struct {
	Status    string `json:"status"` // ok
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type DeployFileRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type DeployFileResponse struct {
	Status string `json:"status"` // ok
	File   string `json:"file"`
	Size   int    `json:"size"`
}

type HealthResponse struct {
	Status               string `json:"status"`
	CurrentEditionExists bool   `json:"current_edition_exists"`
	BackupCount          int    `json:"backup_count"`
}
