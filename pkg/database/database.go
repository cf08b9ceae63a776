package database

import (
	"fmt"
	"log"

	"mathquest_backend/internal/config"
	"mathquest_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ShouldMigrate reports whether startup runs AutoMigrate: always outside
// release mode, only with the -migrate flag in release.
func ShouldMigrate(mode string, force bool) bool {
	return mode != "release" || force
}

func InitDB(cfg *config.DatabaseConfig, mode string, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logMode := logger.Warn
	if mode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Problem{},
			&model.ProblemRating{},
			&model.UserRating{},
			&model.UserRatingHistoryEntry{},
			&model.PairwiseVote{},
			&model.Attempt{},
			&model.PracticeSession{},
			&model.VideoFeedback{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")
	}

	return db, nil
}
