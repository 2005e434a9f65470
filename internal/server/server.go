package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/listtra/listtra/internal/auth"
	"github.com/listtra/listtra/internal/handler"
	appmw "github.com/listtra/listtra/internal/middleware"
	"github.com/listtra/listtra/internal/repository"
	"github.com/listtra/listtra/internal/service"
)

type Deps struct {
	Users         repository.UserRepository
	Listings      repository.ListingRepository
	Conversations repository.ConversationRepository
	Offers        repository.OfferRepository
	Reviews       repository.ReviewRepository
	Notifications repository.NotificationRepository
	Tokens        *auth.Manager
}

type Server struct {
	e *echo.Echo
}

func New(d Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	notifSvc := service.NewNotificationService(d.Notifications)

	authSvc := service.NewAuthService(d.Users, d.Tokens)
	authHandler := handler.NewAuthHandler(authSvc)

	listingSvc := service.NewListingService(d.Listings)
	listingHandler := handler.NewListingHandler(listingSvc)

	convSvc := service.NewConversationService(d.Conversations, d.Listings, d.Offers, d.Reviews, d.Users, notifSvc)
	convHandler := handler.NewConversationHandler(convSvc)

	offerSvc := service.NewOfferService(d.Offers, d.Conversations, notifSvc)
	offerHandler := handler.NewOfferHandler(offerSvc)

	reviewSvc := service.NewReviewService(d.Reviews, d.Offers, d.Listings, notifSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)

	notifHandler := handler.NewNotificationHandler(notifSvc)

	authMw := appmw.NewAuthMiddleware(d.Tokens)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	api := e.Group("/api")

	api.POST("/register", authHandler.Register)
	api.POST("/token", authHandler.Login)
	api.POST("/token/refresh", authHandler.Refresh)
	api.GET("/profile", authHandler.Profile, authMw.RequireAuth)

	api.GET("/categories", listingHandler.Categories)
	api.GET("/listings", listingHandler.List)
	api.GET("/listings/search", listingHandler.Search)
	api.GET("/listings/liked", listingHandler.ListLiked, authMw.RequireAuth)
	api.POST("/listings", listingHandler.Create, authMw.RequireAuth)
	api.GET("/listings/:id", listingHandler.Get)
	api.PUT("/listings/:id", listingHandler.Update, authMw.RequireAuth)
	api.DELETE("/listings/:id", listingHandler.Delete, authMw.RequireAuth)
	api.POST("/listings/:id/like", listingHandler.Like, authMw.RequireAuth)
	api.DELETE("/listings/:id/like", listingHandler.Unlike, authMw.RequireAuth)
	api.POST("/listings/:id/conversations", convHandler.CreateFromListing, authMw.RequireAuth)

	api.GET("/chat/conversations", convHandler.List, authMw.RequireAuth)
	api.GET("/chat/conversations/:id", convHandler.Get, authMw.RequireAuth)
	api.GET("/chat/conversations/:id/messages", convHandler.ListMessages, authMw.RequireAuth)
	api.POST("/chat/conversations/:id/read", convHandler.MarkRead, authMw.RequireAuth)
	api.POST("/chat/messages", convHandler.CreateMessage, authMw.RequireAuth)

	api.POST("/offers/:id/accept", offerHandler.Accept, authMw.RequireAuth)
	api.POST("/offers/:id/reject", offerHandler.Reject, authMw.RequireAuth)
	api.POST("/offers/:id/cancel", offerHandler.Cancel, authMw.RequireAuth)

	api.POST("/reviews", reviewHandler.Create, authMw.RequireAuth)
	api.GET("/reviews/check", reviewHandler.Check, authMw.RequireAuth)
	api.GET("/users/:uid/reviews", reviewHandler.ListForUser)

	api.GET("/notifications", notifHandler.List, authMw.RequireAuth)
	api.POST("/notifications/read", notifHandler.MarkAllRead, authMw.RequireAuth)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Handler exposes the routing tree for httptest-based integration tests.
func (s *Server) Handler() http.Handler {
	return s.e
}
