package common

import (
	"os"
	"strconv"
)

// Config holds everything the server reads from the environment.
// Secrets the stages need (API keys, Cloudflare token) stay in the process
// environment and are passed through to the stage subprocesses untouched.
type Config struct {
	AppEnv        string // environment (development/production)
	DeployToken   string // shared bearer secret for the control endpoints
	Port          int    // port to listen on
	WebRoot       string // directory the live edition is served from
	BackupDir     string // directory for archived editions
	WorkDir       string // working directory the stage programs run in
	ArtifactDir   string // directory for intermediate pipeline artifacts
	RunLogDir     string // directory for per-run log files
	LogPath       string // service log file path
	PipelinePath  string // optional YAML overriding the built-in stage list
	LookbackHours int    // recency window passed to the fetch stages
	StageTimeout  int    // per-stage wall clock ceiling, seconds
	GenerateCron  string // optional cron spec for self-triggering a daily run
}

var config Config

func GetConfig() Config {
	return config
}

func InitConf() {
	port := getEnvInt("PORT", 8472)
	hours := getEnvInt("LOOKBACK_HOURS", 24)
	stageTimeout := getEnvInt("STAGE_TIMEOUT_SECONDS", 300)

	config = Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		DeployToken:   getEnv("DEPLOY_TOKEN", ""), // no default, must be configured
		Port:          port,
		WebRoot:       getEnv("WEB_ROOT", "/var/www/leonne.net"),
		BackupDir:     getEnv("BACKUP_DIR", "/var/www/leonne.net/archive"),
		WorkDir:       getEnv("WORK_DIR", "/opt/leonne-deploy"),
		ArtifactDir:   getEnv("ARTIFACT_DIR", "/opt/leonne-deploy"),
		RunLogDir:     getEnv("RUN_LOG_DIR", "/opt/leonne-deploy/logs"),
		LogPath:       getEnv("LOG_PATH", "./logs/server.log"),
		PipelinePath:  getEnv("PIPELINE_CONFIG", ""),
		LookbackHours: hours,
		StageTimeout:  stageTimeout,
		GenerateCron:  getEnv("GENERATE_CRON", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt falls back to the default when the variable is unset or does
// not parse as a positive integer, so a typo cannot zero out a timeout.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
