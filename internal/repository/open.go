package repository

import (
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MollahHamza/TRASHCANPRO/internal/config"
	"github.com/MollahHamza/TRASHCANPRO/internal/database"
	"github.com/MollahHamza/TRASHCANPRO/internal/logger"
)

// Backends bundles the repositories selected by a StorageConfig.
type Backends struct {
	Users   UserRepository
	Reports ReportRepository
	db      *sql.DB
}

// Close releases the database handle, if any.
func (b *Backends) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Open builds the user and report repositories for cfg.Backend.
func Open(cfg config.StorageConfig) (*Backends, error) {
	switch cfg.Backend {
	case "", config.BackendFile:
		logger.Infof("storage: json files users=%s reports=%s", cfg.UsersFile, cfg.ReportsFile)
		return &Backends{
			Users:   NewJSONUserRepo(cfg.UsersFile),
			Reports: NewJSONReportRepo(cfg.ReportsFile),
		}, nil
	case config.BackendMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		logger.Infof("storage: mysql %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
		return &Backends{
			Users:   NewMySQLUserRepo(db),
			Reports: NewMySQLReportRepo(db),
			db:      db,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// DB returns the MySQL handle, or nil for the file backend.
func (b *Backends) DB() *sql.DB { return b.db }

// OpenSessions picks the refresh token store for backend.  Redis needs a
// client and MySQL needs a handle; when the requested one is unavailable
// the MySQL store is tried next and process memory is the last resort.
func OpenSessions(backend string, rdb *redis.Client, db *sql.DB) SessionRepository {
	switch backend {
	case config.SessionRedis:
		if rdb != nil {
			return NewRedisSessionRepo(rdb, "sess")
		}
		logger.Warning("sessions: redis requested but unavailable")
	case config.SessionMySQL:
		if db == nil {
			logger.Warning("sessions: mysql requested but storage is not mysql, using memory")
			return NewMemorySessionRepo()
		}
	default:
		return NewMemorySessionRepo()
	}
	if db != nil {
		logger.Info("sessions: mysql refresh_tokens table")
		return NewMySQLSessionRepo(db)
	}
	logger.Warning("sessions: using process memory")
	return NewMemorySessionRepo()
}
