package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sweetshop/api/internal/config"
	"github.com/sweetshop/api/internal/models"
	pkgdb "github.com/sweetshop/api/pkg/db"
	"github.com/sweetshop/api/pkg/hash"
)

// Seeds the demo users and the starter catalog. Safe to run repeatedly:
// existing rows are updated in place, never duplicated.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Sweet{}, &models.Order{}, &models.OrderItem{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	seedUsers(db)
	seedSweets(db)

	log.Println("seed complete")
}

func seedUsers(db *gorm.DB) {
	users := []struct {
		username string
		password string
		role     string
	}{
		{"admin", "admin123", models.RoleAdmin},
		{"staff", "staff123", models.RoleStaff},
	}

	for _, u := range users {
		pwHash, err := hash.HashPassword(u.password)
		if err != nil {
			log.Fatalf("hash password for %s: %v", u.username, err)
		}
		user := models.User{Username: u.username, PasswordHash: pwHash, Role: u.role}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).Create(&user).Error
		if err != nil {
			log.Fatalf("seed user %s: %v", u.username, err)
		}
	}
	log.Println("users seeded: admin, staff")
}

func seedSweets(db *gorm.DB) {
	sweets := []models.Sweet{
		{Name: "Gulab Jamun", Price: 25, Stock: 100, Description: "Traditional milk solid dumplings soaked in sugar syrup"},
		{Name: "Rasgulla", Price: 20, Stock: 80, Description: "Soft spongy cottage cheese balls in light sugar syrup"},
		{Name: "Kaju Katli", Price: 50, Stock: 50, Description: "Diamond-shaped cashew fudge with silver foil"},
		{Name: "Jalebi", Price: 30, Stock: 75, Description: "Crispy orange spirals soaked in sugar syrup"},
		{Name: "Laddu", Price: 15, Stock: 120, Description: "Traditional round sweet made from gram flour"},
		{Name: "Barfi", Price: 35, Stock: 60, Description: "Dense milk-based confection in various flavors"},
		{Name: "Mysore Pak", Price: 40, Stock: 45, Description: "Rich ghee-based sweet from Karnataka"},
		{Name: "Sandesh", Price: 25, Stock: 70, Description: "Bengali cottage cheese sweet delicacy"},
	}

	for i := range sweets {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "stock", "description"}),
		}).Create(&sweets[i]).Error
		if err != nil {
			log.Fatalf("seed sweet %s: %v", sweets[i].Name, err)
		}
	}
	log.Printf("sweets seeded: %d items", len(sweets))
}
