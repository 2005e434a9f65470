package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/listtra/listtra/internal/config"
	"github.com/listtra/listtra/internal/db"
	"github.com/listtra/listtra/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type seedListing struct {
	Title        string
	Description  string
	Price        int64
	CategorySlug string
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.DatabaseConfigured() {
		return fmt.Errorf("seed requires a configured database")
	}
	conn, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := conn.AutoMigrate(&model.User{}, &model.Category{}, &model.Listing{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var count int64
	if err := conn.WithContext(ctx).Model(&model.Listing{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count listings: %w", err)
	}
	if count > 0 && os.Getenv("FORCE_SEED") != "true" {
		log.Printf("listings already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	for _, cat := range []model.Category{
		{Slug: "electronics", Name: "Electronics"},
		{Slug: "furniture", Name: "Furniture"},
		{Slug: "fashion", Name: "Fashion"},
		{Slug: "books", Name: "Books"},
		{Slug: "sports", Name: "Sports"},
	} {
		c := cat
		if err := conn.WithContext(ctx).Where("slug = ?", c.Slug).FirstOrCreate(&c).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	seller := model.User{
		UID:          uuid.NewString(),
		Email:        "seller@listtra.dev",
		PasswordHash: string(hash),
		Nickname:     "Demo Seller",
	}
	if err := conn.WithContext(ctx).Where("email = ?", seller.Email).FirstOrCreate(&seller).Error; err != nil {
		return fmt.Errorf("seed seller: %w", err)
	}
	buyer := model.User{
		UID:          uuid.NewString(),
		Email:        "buyer@listtra.dev",
		PasswordHash: string(hash),
		Nickname:     "Demo Buyer",
	}
	if err := conn.WithContext(ctx).Where("email = ?", buyer.Email).FirstOrCreate(&buyer).Error; err != nil {
		return fmt.Errorf("seed buyer: %w", err)
	}

	for _, sl := range buildSeedListings() {
		l := model.Listing{
			SellerUID:    seller.UID,
			Title:        sl.Title,
			Description:  sl.Description,
			Price:        sl.Price,
			CategorySlug: sl.CategorySlug,
		}
		if err := conn.WithContext(ctx).Create(&l).Error; err != nil {
			return fmt.Errorf("seed listing %q: %w", sl.Title, err)
		}
	}

	log.Printf("seeded %d listings", len(buildSeedListings()))
	return nil
}

func buildSeedListings() []seedListing {
	return []seedListing{
		{Title: "Wireless headphones", Description: "Lightly used, full working order.", Price: 1500, CategorySlug: "electronics"},
		{Title: "Study desk", Description: "Solid wood desk, minor scratches.", Price: 2200, CategorySlug: "furniture"},
		{Title: "Cricket bat", Description: "English willow, knocked in.", Price: 900, CategorySlug: "sports"},
		{Title: "Paperback bundle", Description: "Ten novels, good condition.", Price: 500, CategorySlug: "books"},
		{Title: "Denim jacket", Description: "Size M, barely worn.", Price: 700, CategorySlug: "fashion"},
	}
}
