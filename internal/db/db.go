package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/garagedesk/shop-scheduler/internal/config"
	"github.com/garagedesk/shop-scheduler/internal/models"
	"github.com/garagedesk/shop-scheduler/internal/timezone"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Shop{},
		&models.User{},
		&models.Customer{},
		&models.Vehicle{},
		&models.CannedService{},
		&models.OperatingHours{},
		&models.CapacitySettings{},
		&models.Appointment{},
		&models.AppointmentService{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	seedSingletons(db)

	return db
}

// seedSingletons guarantees the shop profile, the 7 operating-hours rows and
// the capacity-settings row exist so scheduling never starts half-configured.
func seedSingletons(db *gorm.DB) {
	var shopCount int64
	db.Model(&models.Shop{}).Count(&shopCount)
	if shopCount == 0 {
		db.Create(&models.Shop{
			Name:     "GarageDesk",
			Timezone: timezone.DefaultTimezone,
		})
	}

	for weekday := 0; weekday < 7; weekday++ {
		var count int64
		db.Model(&models.OperatingHours{}).Where("weekday = ?", weekday).Count(&count)
		if count > 0 {
			continue
		}

		oh := models.OperatingHours{Weekday: weekday}
		if weekday >= 1 && weekday <= 5 {
			oh.IsOpen = true
			oh.OpenTime = "09:00"
			oh.CloseTime = "17:00"
		}
		db.Create(&oh)
	}

	var settingsCount int64
	db.Model(&models.CapacitySettings{}).Count(&settingsCount)
	if settingsCount == 0 {
		db.Create(&models.CapacitySettings{
			AppointmentsPerDay:       12,
			AppointmentsPerTimeBlock: 2,
			TimeBlockIntervalMin:     30,
			MinimumNoticeHours:       2,
			FutureCutoffYears:        1,
		})
	}
}
