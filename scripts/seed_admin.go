package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dannydanzka/reservapp-web-sub003/models"
	"github.com/dannydanzka/reservapp-web-sub003/storage"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the first admin account and a demo venue with one bookable service.
// Safe to re-run: existing rows are left untouched.
func main() {
	godotenv.Load()
	db := storage.InitializeDB()

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be set")
	}

	var admin models.User
	if err := db.Where("email = ?", email).First(&admin).Error; err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Error hashing password: %v", err)
		}
		admin = models.User{
			Email:     email,
			Password:  string(hash),
			FirstName: "Platform",
			LastName:  "Admin",
			Role:      models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("Error creating admin user: %v", err)
		}
		fmt.Printf("Created admin user %s\n", email)
	} else {
		fmt.Printf("Admin user %s already exists\n", email)
	}

	var venue models.Venue
	if err := db.Where("name = ?", "Demo Venue").First(&venue).Error; err != nil {
		venue = models.Venue{Name: "Demo Venue", OwnerID: admin.ID, City: "Ciudad de México"}
		if err := db.Create(&venue).Error; err != nil {
			log.Fatalf("Error creating demo venue: %v", err)
		}
		service := models.Service{
			VenueID:  venue.ID,
			Name:     "Demo Service",
			Price:    decimal.NewFromInt(1000),
			Currency: "MXN",
		}
		if err := db.Create(&service).Error; err != nil {
			log.Fatalf("Error creating demo service: %v", err)
		}
		fmt.Println("Created demo venue and service")
	} else {
		fmt.Println("Demo venue already exists")
	}

	fmt.Println("Seeding completed successfully!")
}
