package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/db"
	"catalog/internal/model"
	"catalog/internal/repository"
)

// Starter categories for a fresh database.
var seedCategories = []model.Category{
	{Name: "Electronics", Description: "Devices and accessories", Active: true, CreatedBy: "system", UpdatedBy: "system"},
	{Name: "Books", Description: "Printed and digital books", Active: true, CreatedBy: "system", UpdatedBy: "system"},
	{Name: "Clothing", Description: "Apparel and footwear", Active: true, CreatedBy: "system", UpdatedBy: "system"},
	{Name: "Home", Description: "Furniture and household goods", Active: true, CreatedBy: "system", UpdatedBy: "system"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Category{}, &model.Product{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	categoryRepo := repository.NewCategoryRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	created, skipped, err := seedCategoryRecords(ctx, categoryRepo)
	if err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}
	log.Printf("Categories seeded: %d created, %d already present", created, skipped)

	if err := seedAdminUser(ctx, userRepo); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	log.Println("Seed completed successfully!")
}

// seedCategoryRecords inserts the starter categories, skipping names that
// already exist so the script stays idempotent.
func seedCategoryRecords(ctx context.Context, repo repository.CategoryRepository) (created, skipped int, err error) {
	for i := range seedCategories {
		category := seedCategories[i]

		existing, err := repo.FindByName(ctx, category.Name)
		if err != nil && err != gorm.ErrRecordNotFound {
			return created, skipped, err
		}
		if existing != nil {
			skipped++
			continue
		}

		if err := repo.Create(ctx, &category); err != nil {
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}

// seedAdminUser provisions the admin account. Admins cannot be created
// through the API; this is the only way one comes to exist.
func seedAdminUser(ctx context.Context, repo repository.UserRepository) error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	existing, err := repo.FindByUsername(ctx, username)
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if existing != nil {
		log.Printf("Admin user %q already present", username)
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username: username,
		Password: string(hashed),
		Role:     model.RoleAdmin,
		Active:   true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("Admin user %q created", username)
	return nil
}
