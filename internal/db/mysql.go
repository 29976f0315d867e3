package db

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var database *gorm.DB

// InitMySQL opens the MySQL connection pool
func InitMySQL(dsn string) error {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	database = db
	log.Println("✓ MySQL connected successfully")
	return nil
}

// GetDB returns the shared gorm handle
func GetDB() *gorm.DB {
	return database
}

// Close closes the underlying connection pool
func Close() error {
	if database == nil {
		return nil
	}
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
