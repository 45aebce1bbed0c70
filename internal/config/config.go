package config // package config loads application configuration from environment variables

import (
	"log"           // log is used to report configuration errors and halt execution
	"os"            // os provides access to environment variables
	"path/filepath" // filepath joins data directory paths
	"sync"          // sync guards the one-time .env load

	"github.com/joho/godotenv" // godotenv reads a local .env file into the environment
)

// Storage backends understood by repository.Open.
const (
	BackendFile  = "file"
	BackendMySQL = "mysql"
)

// Session backends understood by repository.OpenSessions.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
	SessionMySQL  = "mysql"
)

// Config holds all runtime configuration values of the HTTP server.  Each
// field corresponds to an environment variable.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time‑to‑live in minutes
	RefreshTTLDays int    // refresh token time‑to‑live in days
	SessionBackend string // where refresh tokens live: memory, redis or mysql
	LogLevel       string // console log level (debug, info, notice, warning, error)
	LogDir         string // folder for the debug log file
	Storage        StorageConfig
}

// StorageConfig selects and parameterizes the record store backend.  It is
// shared by the server and the operator CLI.
type StorageConfig struct {
	Backend     string // file or mysql
	DataDir     string // base folder for the JSON files and images
	UsersFile   string // users JSON file
	ReportsFile string // waste reports JSON file
	ImageDir    string // folder receiving uploaded images
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
}

var dotenvOnce sync.Once

// loadDotenv reads .env (or the file named by ENV_FILE) once.  A missing
// file is not an error; real environment variables always win.
func loadDotenv() {
	dotenvOnce.Do(func() {
		name := os.Getenv("ENV_FILE")
		if name == "" {
			name = ".env"
		}
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			log.Printf("config: ignoring %s: %v", name, err)
		}
	})
}

// Load reads configuration values from environment variables and returns a
// Config.  JWT_SECRET is required; everything else has a default.
func Load() Config {
	loadDotenv()
	storage := LoadStorage()
	// Refresh tokens follow the records into MySQL unless told otherwise.
	sessions := SessionMemory
	if storage.Backend == BackendMySQL {
		sessions = SessionMySQL
	}
	return Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           getenv("APP_PORT", "8080"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 60),
		RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 7),
		SessionBackend: envStr("SESSION_BACKEND", sessions),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		LogDir:         envStr("LOG_DIR", "logs"),
		Storage:        storage,
	}
}

// LoadStorage reads only the storage settings.  File locations default to
// the working directory so an existing users.json / waste_reports.json pair
// is picked up unchanged.
func LoadStorage() StorageConfig {
	loadDotenv()
	dataDir := envStr("DATA_DIR", ".")
	return StorageConfig{
		Backend:     envStr("STORAGE_BACKEND", BackendFile),
		DataDir:     dataDir,
		UsersFile:   envStr("USERS_FILE", filepath.Join(dataDir, "users.json")),
		ReportsFile: envStr("REPORTS_FILE", filepath.Join(dataDir, "waste_reports.json")),
		ImageDir:    envStr("IMAGE_DIR", filepath.Join(dataDir, "waste_report_images")),
		DBUser:      envStr("DB_USER", "root"),
		DBPass:      os.Getenv("DB_PASS"),
		DBHost:      envStr("DB_HOST", "127.0.0.1"),
		DBPort:      envStr("DB_PORT", "3306"),
		DBName:      envStr("DB_NAME", "trashcanpro"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
