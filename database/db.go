// Package database manages the sqlite connection, migrations and the
// seeded first account.
package database

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path"
	"strings"

	"github.com/ku-unplugged/livelog/config"
	"github.com/ku-unplugged/livelog/database/model"
	"github.com/ku-unplugged/livelog/util/crypto"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

const (
	defaultAdminEmail    = "admin@ku-unplugged.net"
	defaultAdminPassword = "changeme"
)

func initModels() error {
	models := []any{
		&model.Account{},
		&model.Live{},
		&model.Song{},
		&model.Playing{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

// initAccount seeds an activated admin when the accounts table is empty,
// so a fresh install can log in and invite everyone else.
func initAccount() error {
	empty, err := isTableEmpty("accounts")
	if err != nil {
		log.Printf("Error checking if accounts table is empty: %v", err)
		return err
	}
	if !empty {
		return nil
	}

	digest, err := crypto.HashDigest(defaultAdminPassword)
	if err != nil {
		return err
	}
	admin := &model.Account{
		FirstName: "管理者",
		LastName:  "livelog",
		Furigana:  "らいぶろぐ かんりしゃ",
		Email:     defaultAdminEmail,
		Joined:    1995,
		Role:      model.RoleAdmin,
		Activated: true,

		PasswordDigest: digest,
	}
	admin.DowncaseEmail()
	return db.Create(admin).Error
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger logger.Interface

	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if _, err = sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return err
	}

	if err := initModels(); err != nil {
		return err
	}
	return initAccount()
}

func CloseDB() error {
	if db != nil {
		if err := Checkpoint(); err != nil {
			log.Printf("error executing checkpoint: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err came from the unique email
// index, so it can surface as a field error instead of a crash.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func Checkpoint() error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}
