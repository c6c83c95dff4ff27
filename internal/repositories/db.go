package repositories

import (
	"log"

	"github.com/pratham-8123/vaultbox/internal/config"
	"github.com/pratham-8123/vaultbox/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase() *gorm.DB {
	dsn := config.Envs.DB_URL
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.File{},
	)
	if err != nil {
		log.Fatal("Migration failed:", err)
	}
	DB = db
	log.Println("Successfully connected to database")
	return db
}

// SeedAdminUser creates the configured admin account if it does not exist.
func SeedAdminUser(db *gorm.DB) {
	email := config.Envs.AdminEmail

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Fatal("Admin seed check failed:", err)
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(config.Envs.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}

	admin := models.User{
		Username: "admin",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}
	log.Println("Admin user created:", email)
}

// MigrateLegacyFilePaths backfills the materialized path on file rows
// created before paths existed: they become root-level /{originalName}.
func MigrateLegacyFilePaths(db *gorm.DB) {
	var files []models.File
	if err := db.Where("path IS NULL OR path = ''").Find(&files).Error; err != nil {
		log.Fatal("Legacy path lookup failed:", err)
	}
	if len(files) == 0 {
		return
	}

	log.Printf("Migrating %d files without path information", len(files))
	for i := range files {
		files[i].ParentFolderID = nil
		files[i].Path = "/" + files[i].OriginalName
		if err := db.Save(&files[i]).Error; err != nil {
			log.Fatal("Legacy path migration failed:", err)
		}
	}
	log.Println("File path migration completed")
}
