package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string

	StorageDriver           string
	DBURL                   string
	DBMaxOpenConns          int
	DBDisablePreparedBinary bool

	DefaultResultPolicy    competition.ResultPolicy
	DefaultLockPolicy      competition.LockPolicy
	DefaultLivesPerRound   int
	TiebreakType           string
	TiebreakMaxScore       int
	TiebreakFallbackWindow time.Duration
	ExactoMaxGoals         int
	IngestWorkers          int

	AdminToken          string
	LeaderboardCacheTTL time.Duration

	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	storageDriver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	switch storageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", storageDriver, StorageMemory, StoragePostgres)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storageDriver == StoragePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}
	dbMaxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if dbMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	resultPolicy, err := competition.ParseResultPolicy(getEnv("LMS_DEFAULT_RESULT_POLICY", string(competition.ResultPolicyStandard)))
	if err != nil {
		return Config{}, fmt.Errorf("parse LMS_DEFAULT_RESULT_POLICY: %w", err)
	}
	lockPolicy, err := competition.ParseLockPolicy(getEnv("LMS_DEFAULT_LOCK_POLICY", string(competition.LockPolicyGameweek)))
	if err != nil {
		return Config{}, fmt.Errorf("parse LMS_DEFAULT_LOCK_POLICY: %w", err)
	}
	livesPerRound, err := getEnvAsInt("LMS_DEFAULT_LIVES_PER_ROUND", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse LMS_DEFAULT_LIVES_PER_ROUND: %w", err)
	}
	if livesPerRound < 1 {
		return Config{}, fmt.Errorf("LMS_DEFAULT_LIVES_PER_ROUND must be >= 1")
	}
	tiebreakMaxScore, err := getEnvAsInt("LMS_TIEBREAK_MAX_SCORE", 1000)
	if err != nil {
		return Config{}, fmt.Errorf("parse LMS_TIEBREAK_MAX_SCORE: %w", err)
	}
	if tiebreakMaxScore < 1 {
		return Config{}, fmt.Errorf("LMS_TIEBREAK_MAX_SCORE must be >= 1")
	}
	tiebreakFallbackWindow, err := time.ParseDuration(getEnv("LMS_TIEBREAK_FALLBACK_WINDOW", "72h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LMS_TIEBREAK_FALLBACK_WINDOW: %w", err)
	}
	if tiebreakFallbackWindow <= 0 {
		return Config{}, fmt.Errorf("LMS_TIEBREAK_FALLBACK_WINDOW must be > 0")
	}
	exactoMaxGoals, err := getEnvAsInt("LMS_EXACTO_MAX_GOALS", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse LMS_EXACTO_MAX_GOALS: %w", err)
	}
	if exactoMaxGoals < 1 {
		return Config{}, fmt.Errorf("LMS_EXACTO_MAX_GOALS must be >= 1")
	}
	ingestWorkers, err := getEnvAsInt("LMS_INGEST_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse LMS_INGEST_WORKERS: %w", err)
	}
	if ingestWorkers < 1 {
		return Config{}, fmt.Errorf("LMS_INGEST_WORKERS must be >= 1")
	}

	adminToken := strings.TrimSpace(getEnv("ADMIN_TOKEN", ""))
	if appEnv == EnvProd && adminToken == "" {
		return Config{}, fmt.Errorf("ADMIN_TOKEN is required when APP_ENV=%s", EnvProd)
	}
	leaderboardCacheTTL, err := time.ParseDuration(getEnv("LEADERBOARD_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LEADERBOARD_CACHE_TTL: %w", err)
	}
	if leaderboardCacheTTL <= 0 {
		return Config{}, fmt.Errorf("LEADERBOARD_CACHE_TTL must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "last-man-standing-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		LogLevel:                parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		StorageDriver:           storageDriver,
		DBURL:                   dbURL,
		DBMaxOpenConns:          dbMaxOpenConns,
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		DefaultResultPolicy:     resultPolicy,
		DefaultLockPolicy:       lockPolicy,
		DefaultLivesPerRound:    livesPerRound,
		TiebreakType:            strings.TrimSpace(getEnv("LMS_TIEBREAK_TYPE", "score_attack")),
		TiebreakMaxScore:        tiebreakMaxScore,
		TiebreakFallbackWindow:  tiebreakFallbackWindow,
		ExactoMaxGoals:          exactoMaxGoals,
		IngestWorkers:           ingestWorkers,
		AdminToken:              adminToken,
		LeaderboardCacheTTL:     leaderboardCacheTTL,
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
		PyroscopeEnabled:        pyroscopeEnabled,
		PyroscopeServerAddress:  pyroscopeServerAddress,
		PyroscopeAuthToken:      strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:     pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStaging, EnvProd:
		return value, nil
	case "stage":
		return EnvStaging, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStaging, EnvProd)
	}
}
