package main

import (
	"context"
	"log"
	"os"
	"time"

	"hesabyar/internal/handlers"
	"hesabyar/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	// --- Pick the persistence gateway ---
	// STORE_MODE=file   -> one JSON file on this device (default)
	// STORE_MODE=db     -> single-row MySQL table (needs DB_DSN)
	// STORE_MODE=remote -> another instance's document endpoint (needs DOCUMENT_URL)
	gateway, docGateway := buildGateway(logger)

	container, err := store.NewContainer(context.Background(), gateway, logger)
	if err != nil {
		log.Fatal("Failed to load the application document:", err)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"}, // Allow the panel frontend
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := handlers.New(container, logger)
	var doc *handlers.DocumentHandler
	if docGateway != nil {
		doc = handlers.NewDocumentHandler(docGateway, logger)
		log.Println("📄 Document endpoint is OPEN on /api/document")
	}
	handlers.RegisterRoutes(r, h, doc)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Println("🚀 hesabyar starting on " + addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

// buildGateway returns the gateway the container uses, plus the gateway
// to expose on the raw document endpoint (nil when this instance does
// not host one).
func buildGateway(logger *zap.Logger) (store.Gateway, store.Gateway) {
	switch os.Getenv("STORE_MODE") {
	case "db":
		db, err := store.NewDBStore(os.Getenv("DB_DSN"), logger)
		if err != nil {
			log.Fatal("Failed to open the document table:", err)
		}
		// A db-backed instance also hosts the protocol for others.
		return db, db
	case "remote":
		url := os.Getenv("DOCUMENT_URL")
		if url == "" {
			log.Fatal("STORE_MODE=remote requires DOCUMENT_URL in .env")
		}
		return store.NewRemoteStore(url, logger), nil
	default:
		path := os.Getenv("DOCUMENT_FILE")
		if path == "" {
			path = "hesabyar-data.json"
		}
		return store.NewFileStore(path, logger), nil
	}
}
