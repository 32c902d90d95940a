package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"hotel-management/models"
	"hotel-management/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		utils.EnvOrDefault("DB_USER", "root"),
		utils.EnvOrDefault("DB_PASS", ""),
		utils.EnvOrDefault("DB_HOST", "127.0.0.1"),
		utils.EnvOrDefault("DB_PORT", "3306"),
		utils.EnvOrDefault("DB_NAME", "hotel_db"),
	), nil
}

func resolvePostgresDSN() string {
	if raw := strings.TrimSpace(os.Getenv("DATABASE_URL")); raw != "" {
		return raw
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		utils.EnvOrDefault("DB_HOST", "127.0.0.1"),
		utils.EnvOrDefault("DB_PORT", "5432"),
		utils.EnvOrDefault("DB_USER", "postgres"),
		utils.EnvOrDefault("DB_PASS", "postgres"),
		utils.EnvOrDefault("DB_NAME", "hotel_db"),
		utils.EnvOrDefault("DB_SSL_MODE", "disable"),
	)
}

// Dialector picks the gorm driver for settings.DBDriver.
func Dialector(s *Settings) (gorm.Dialector, error) {
	switch s.DBDriver {
	case "postgres":
		return postgres.Open(resolvePostgresDSN()), nil
	default:
		dsn, err := resolveMySQLDSN()
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// GormConfig is shared by the server and the tests.
func GormConfig(level string) *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  parseLogLevel(level),
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates tables in parent->child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupPermission{},
		&models.Hotel{},
		&models.Booking{},
		&models.RevokedToken{},
	)
}

// SeedDatabase ensures the role groups and their permissions exist, and a
// superuser when none has been created yet.
func SeedDatabase(db *gorm.DB, admin AdminAccount) error {
	for name, perms := range models.DefaultGroupPermissions {
		group := models.Group{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&group).Error; err != nil {
			return fmt.Errorf("seed group %s: %w", name, err)
		}

		var count int64
		if err := db.Model(&models.GroupPermission{}).Where("group_id = ?", group.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("count permissions for %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		rows := make([]models.GroupPermission, 0, len(perms))
		for _, p := range perms {
			rows = append(rows, models.GroupPermission{GroupID: group.ID, Permission: p})
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("seed permissions for %s: %w", name, err)
		}
		log.Printf("Group %s seeded", name)
	}
	return seedSuperuser(db, admin)
}

func seedSuperuser(db *gorm.DB, admin AdminAccount) error {
	var count int64
	if err := db.Model(&models.User{}).Where("is_superuser = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("count superusers: %w", err)
	}
	if count > 0 {
		return nil
	}
	if admin.Password == "" {
		log.Println("⚠️  No superuser exists and ADMIN_PASSWORD is not set; skipping admin seed")
		return nil
	}

	var taken int64
	if err := db.Model(&models.User{}).
		Where("username = ? OR email = ?", admin.Username, admin.Email).
		Count(&taken).Error; err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if taken > 0 {
		return fmt.Errorf("seed admin: username %q or email %q belongs to a regular account", admin.Username, admin.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	user := models.User{
		Username:    admin.Username,
		Email:       admin.Email,
		Password:    string(hash),
		Role:        models.RoleUnassigned,
		IsSuperuser: true,
		IsActive:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Printf("Superuser %s seeded", admin.Username)
	return nil
}

func ConnectDatabase(s *Settings) error {
	dialector, err := Dialector(s)
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, GormConfig(s.SQLLogLevel))
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(db); err != nil {
		return err
	}
	if err := SeedDatabase(db, s.Admin); err != nil {
		return err
	}

	DB = db
	return nil
}
