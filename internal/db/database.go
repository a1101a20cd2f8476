package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
	"github.com/kidomigon/roomcompanion-backend/internal/utils"
)

type DatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDatabaseService opens the relational store. The default is a local
// sqlite file, matching a single-facility deployment; DB_DRIVER=postgres
// switches to a shared server.
func NewDatabaseService(log *logger.Logger) (*DatabaseService, error) {
	serviceLog := log.With("service", "DatabaseService")

	driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "sqlite", log))

	var (
		gdb *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "roomcompanion", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		serviceLog.Info("Connecting to Postgres...")
		gdb, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "alerts.db", log)
		serviceLog.Info("Opening sqlite database", "path", path)
		gdb, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		serviceLog.Error("Failed to open database", "driver", driver, "error", err)
		return nil, fmt.Errorf("open database (%s): %w", driver, err)
	}

	return &DatabaseService{db: gdb, log: serviceLog}, nil
}

func (s *DatabaseService) DB() *gorm.DB {
	return s.db
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := s.db.AutoMigrate(
		&types.Room{},
		&types.Staff{},
		&types.Session{},
		&types.Alert{},
		&types.Question{},
	); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

// Seed populates an empty installation with the default rooms and an admin
// account, mirroring first-boot behavior of the facility image.
func (s *DatabaseService) Seed() error {
	var roomCount int64
	if err := s.db.Model(&types.Room{}).Count(&roomCount).Error; err != nil {
		return fmt.Errorf("count rooms: %w", err)
	}
	if roomCount == 0 {
		defaults := []*types.Room{
			{RoomID: "101", ResidentName: "Margaret", Mode: types.ModeStandard},
			{RoomID: "102", ResidentName: "Harold", Mode: types.ModeMemorySupport},
			{RoomID: "103", ResidentName: "Dorothy", Mode: types.ModeStandard},
		}
		if err := s.db.Create(&defaults).Error; err != nil {
			return fmt.Errorf("seed rooms: %w", err)
		}
		s.log.Info("Seeded default rooms", "count", len(defaults))
	}

	var staffCount int64
	if err := s.db.Model(&types.Staff{}).Count(&staffCount).Error; err != nil {
		return fmt.Errorf("count staff: %w", err)
	}
	if staffCount == 0 {
		initialPassword := utils.GetEnv("ADMIN_INITIAL_PASSWORD", "admin1234", s.log)
		hash, err := bcrypt.GenerateFromPassword([]byte(initialPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin := &types.Staff{
			ID:           uuid.New(),
			Username:     "admin",
			DisplayName:  "Admin",
			PasswordHash: string(hash),
			Role:         types.RoleAdmin,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.db.Create(admin).Error; err != nil {
			return fmt.Errorf("seed admin account: %w", err)
		}
		s.log.Info("Seeded admin staff account", "username", admin.Username)
	}

	return nil
}
