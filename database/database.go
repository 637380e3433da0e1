package database

import (
	"embed"

	"calligraphy-cms/internal/domain/artists"
	"calligraphy-cms/internal/domain/billing"
	"calligraphy-cms/internal/domain/events"
	"calligraphy-cms/internal/domain/files"
	"calligraphy-cms/internal/domain/media"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
	"calligraphy-cms/internal/domain/works"
	"calligraphy-cms/internal/infra/logger"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// extensionsVersion is the goose version that installs pgcrypto and pg_trgm;
// it must run before AutoMigrate because uuid defaults need gen_random_uuid.
const extensionsVersion = 1

var DB *gorm.DB

// Models lists every table AutoMigrate manages, parents first.
func Models() []interface{} {
	return []interface{}{
		// core
		&users.User{},
		&media.Image{},

		// people
		&artists.Artist{},
		&artists.ArtistI18n{},
		&membership.Tier{},
		&membership.MemberProfile{},

		// works
		&works.Artwork{},
		&works.ArtworkI18n{},
		&works.ArtworkImage{},

		// events
		&events.Event{},
		&events.EventRegistration{},
		&events.Exhibition{},

		// files + billing
		&files.Document{},
		&billing.Payment{},
	}
}

// InitDB opens the postgres pool and installs it as DB.
func InitDB(dsn string, debug bool) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DB_URL not set")
	}

	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}

	DB = db
	return db, nil
}

// Migrate installs extensions, auto-migrates the models, then applies the
// remaining SQL migrations (indexes and checks over the migrated tables).
func Migrate(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "underlying sql db")
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "goose dialect")
	}

	if err := goose.UpTo(sqlDB, "migrations", extensionsVersion); err != nil {
		return errors.Wrap(err, "install extensions")
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return errors.Wrap(err, "auto-migrate")
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return errors.Wrap(err, "sql migrations")
	}

	logger.Info("database migrated")
	return nil
}
