package postgres

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"photo-triage/domain/models"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	LogSQL   bool

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c DatabaseConfig) dsn() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

// NewDatabase opens the pool and pings it. Statements run with
// PrepareStmt since the triage writes repeat the same few shapes.
func NewDatabase(config DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.dsn()), &gorm.Config{
		Logger:      newDBLogger(config.LogSQL),
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// pgvector backs photo embeddings
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Gallery{},
		&models.Photo{},
		&models.ActivityLog{},
	); err != nil {
		return fmt.Errorf("failed to run auto migrations: %w", err)
	}

	if err := runTriageMigrations(db); err != nil {
		return fmt.Errorf("failed to run triage migrations: %w", err)
	}

	return nil
}

// runTriageMigrations carries galleries created before the status column
// existed over from the selected/rejected boolean pair, and adds the
// constraints AutoMigrate cannot express.
func runTriageMigrations(db *gorm.DB) error {
	migrations := []string{
		`DO $$ BEGIN
			IF EXISTS (SELECT 1 FROM information_schema.columns
				WHERE table_name = 'photos' AND column_name = 'rejected') THEN
				UPDATE photos SET status = 'rejected' WHERE rejected = true AND status = 'untouched';
				UPDATE photos SET status = 'selected' WHERE selected = true AND status = 'untouched';
				ALTER TABLE photos DROP COLUMN rejected;
				ALTER TABLE photos DROP COLUMN selected;
			END IF;
		END $$`,

		`DO $$ BEGIN
			ALTER TABLE photos ADD CONSTRAINT chk_photos_status
				CHECK (status IN ('untouched', 'selected', 'rejected'));
		EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

		`CREATE INDEX IF NOT EXISTS idx_photos_embedding ON photos
			USING hnsw (embedding vector_cosine_ops)`,
	}

	for _, sql := range migrations {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("migration failed: %.50s: %w", sql, err)
		}
	}

	return nil
}
