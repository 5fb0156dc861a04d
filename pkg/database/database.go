package database

import (
	"fmt"
	"log"

	"training_exam_backend/internal/config"
	"training_exam_backend/internal/model"
	"training_exam_backend/internal/util"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const openAttemptIndex = "idx_exam_attempts_open"

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case util.DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=UTC",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		dialector = mysql.Open(dsn)
	default:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	return db, nil
}

// Migrate creates the schema plus the storage-level guard allowing a single
// open attempt per (user, exam).
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectMember{},
		&model.Exam{},
		&model.Question{},
		&model.Choice{},
		&model.ExamAssignment{},
		&model.ExamAttempt{},
		&model.AttemptAnswer{},
		&model.TrainingItem{},
		&model.TrainingAssignment{},
		&model.TrainingProgress{},
	)
	if err != nil {
		return err
	}

	return ensureOpenAttemptIndex(db)
}

func ensureOpenAttemptIndex(db *gorm.DB) error {
	if db.Dialector.Name() == util.DriverMySQL {
		// MySQL has no partial indexes: a generated column that is NULL once the
		// attempt closes gives the same guarantee, since NULLs never collide.
		m := db.Migrator()
		if !m.HasColumn(&model.ExamAttempt{}, "open_marker") {
			if err := db.Exec("ALTER TABLE exam_attempts ADD COLUMN open_marker TINYINT " +
				"AS (IF(submitted_at IS NULL AND deleted_at IS NULL, 1, NULL)) STORED").Error; err != nil {
				return err
			}
		}
		if !m.HasIndex(&model.ExamAttempt{}, openAttemptIndex) {
			return db.Exec("CREATE UNIQUE INDEX " + openAttemptIndex +
				" ON exam_attempts (user_id, exam_id, open_marker)").Error
		}
		return nil
	}

	return db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS " + openAttemptIndex +
		" ON exam_attempts (user_id, exam_id) WHERE submitted_at IS NULL AND deleted_at IS NULL").Error
}
