// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"go-discussions/internal/config"
	"go-discussions/internal/domain"
	"go-discussions/internal/handlers"
	"go-discussions/internal/middleware"
	contactrepo "go-discussions/internal/repository/contact"
	discussionrepo "go-discussions/internal/repository/discussion"
	folderrepo "go-discussions/internal/repository/folder"
	messagerepo "go-discussions/internal/repository/message"
	recipientrepo "go-discussions/internal/repository/recipient"
	userrepo "go-discussions/internal/repository/user"
	"go-discussions/internal/services"
	discussionservice "go-discussions/internal/services/discussion"
	"go-discussions/internal/services/render"
	"go-discussions/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{})
	}
}

func main() {
	cfg := config.Load()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Discussion{},
		&domain.Message{},
		&domain.Recipient{},
		&domain.Folder{},
		&domain.Contact{},
	); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	discussionRepo := discussionrepo.NewDiscussionRepository(db)
	recipientRepo := recipientrepo.NewRecipientRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)
	folderRepo := folderrepo.NewFolderRepository(db)
	contactRepo := contactrepo.NewContactRepository(db)

	// --- Services ---
	svcConfig := discussionservice.DefaultConfig()
	svcConfig.PageSize = cfg.PageSize

	discussionService, err := services.NewDiscussionService(
		discussionRepo,
		recipientRepo,
		messageRepo,
		contactRepo,
		userRepo,
		svcConfig,
		services.NewLogger("discussion"),
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Discussion Service: %v", err)
	}

	folderService := services.NewFolderService(folderRepo, recipientRepo, services.NewLogger("folder"))
	contactService := services.NewContactService(contactRepo, services.NewLogger("contact"))
	authService := user_services.NewAuthService(userRepo, cfg.JWTSecretKey, services.NewLogger("auth"))
	renderer := render.NewRenderer()

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	discussionHandler := handlers.NewDiscussionHandler(discussionService, folderService, contactService, renderer)
	folderHandler := handlers.NewFolderHandler(folderService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(authService)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// --- Protected Routes ---
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(authMiddleware)

	// Listings
	protected.HandleFunc("/", discussionHandler.Inbox).Methods("GET")
	protected.HandleFunc("/sent", discussionHandler.Sent).Methods("GET")
	protected.HandleFunc("/unread", discussionHandler.Unread).Methods("GET")
	protected.HandleFunc("/read", discussionHandler.Read).Methods("GET")
	protected.HandleFunc("/trash", discussionHandler.Trash).Methods("GET")
	protected.HandleFunc("/folder/{folder_id:[0-9]+}", discussionHandler.FolderListing).Methods("GET")
	protected.HandleFunc("/with/{username}", discussionHandler.ConversationWith).Methods("GET")
	protected.HandleFunc("/unread-count", discussionHandler.UnreadCount).Methods("GET")
	protected.HandleFunc("/contacts", discussionHandler.Contacts).Methods("GET")

	// Composing and viewing
	protected.HandleFunc("/compose", discussionHandler.Compose).Methods("POST")
	protected.HandleFunc("/compose/{recipients}", discussionHandler.Compose).Methods("POST")
	protected.HandleFunc("/view/{discussion_id:[0-9]+}", discussionHandler.View).Methods("GET")
	protected.HandleFunc("/reply/{discussion_id:[0-9]+}", discussionHandler.Reply).Methods("POST")

	// Bulk operations over selected discussions
	protected.HandleFunc("/remove", discussionHandler.Remove).Methods("POST")
	protected.HandleFunc("/unremove", discussionHandler.Unremove).Methods("POST")
	protected.HandleFunc("/leave", discussionHandler.Leave).Methods("POST")
	protected.HandleFunc("/move/{folder_id:[0-9]+}", discussionHandler.Move).Methods("POST")
	protected.HandleFunc("/move", discussionHandler.Move).Methods("POST")
	protected.HandleFunc("/mark-read", discussionHandler.MarkRead).Methods("POST")
	protected.HandleFunc("/mark-unread", discussionHandler.MarkUnread).Methods("POST")

	// Folders
	protected.HandleFunc("/folders", folderHandler.List).Methods("GET")
	protected.HandleFunc("/folders", folderHandler.Create).Methods("POST")
	protected.HandleFunc("/folders/{folder_id:[0-9]+}", folderHandler.Update).Methods("POST")
	protected.HandleFunc("/folders/{folder_id:[0-9]+}/remove", folderHandler.Remove).Methods("POST")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Server starting on port %s (driver: %s)", port, cfg.DBDriver)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
