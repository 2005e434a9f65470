package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/listtra/listtra/internal/auth"
	"github.com/listtra/listtra/internal/config"
	"github.com/listtra/listtra/internal/db"
	"github.com/listtra/listtra/internal/model"
	"github.com/listtra/listtra/internal/repository"
	"github.com/listtra/listtra/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("token manager error: %v", err)
	}

	deps := server.Deps{Tokens: tokens}

	if cfg.DatabaseConfigured() {
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Fatalf("db connect error: %v", err)
		}
		if err := conn.AutoMigrate(
			&model.User{},
			&model.Category{},
			&model.Listing{},
			&model.Like{},
			&model.Conversation{},
			&model.ConversationState{},
			&model.Message{},
			&model.Offer{},
			&model.Review{},
			&model.Notification{},
		); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
		deps.Users = repository.NewUserRepository(conn)
		deps.Listings = repository.NewListingRepository(conn)
		deps.Conversations = repository.NewConversationRepository(conn)
		deps.Offers = repository.NewOfferRepository(conn)
		deps.Reviews = repository.NewReviewRepository(conn)
		deps.Notifications = repository.NewNotificationRepository(conn)
	} else {
		log.Printf("no database configured; using in-memory store")
		deps.Users = repository.NewMemoryUserRepository()
		deps.Listings = repository.NewMemoryListingRepository()
		deps.Conversations = repository.NewMemoryConversationRepository()
		deps.Offers = repository.NewMemoryOfferRepository()
		deps.Reviews = repository.NewMemoryReviewRepository()
		deps.Notifications = repository.NewMemoryNotificationRepository()
	}

	srv := server.New(deps)

	addr := ":" + cfg.Port
	log.Printf("starting server on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
