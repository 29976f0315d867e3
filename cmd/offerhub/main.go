package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	v1 "offerhub/api/v1"
	"offerhub/internal/auth"
	"offerhub/internal/cache"
	"offerhub/internal/config"
	"offerhub/internal/db"
	"offerhub/internal/keys"
	"offerhub/internal/ws"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Println("✓ Configuration loaded")

	// 2. Initialize MySQL
	if err := db.InitMySQL(cfg.MySQL.DSN); err != nil {
		log.Fatalf("Failed to initialize MySQL: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// Optional schema migration
	if cfg.Migrate {
		if err := db.Migrate(db.GetDB()); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
			os.Exit(1)
		}
		log.Println("✓ Schema migrated")
	}

	// 3. Initialize Redis
	if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
	defer cache.Close()

	// 4. Initialize JWT and the credential sealer
	auth.InitJWT(cfg.JWT.Secret)
	sealer, err := keys.NewSealer(cfg.MasterKey)
	if err != nil {
		log.Fatalf("Failed to initialize sealer: %v", err)
		os.Exit(1)
	}

	// 5. Initialize Socket.IO server
	if err := ws.InitServer(); err != nil {
		log.Fatalf("Failed to initialize WebSocket server: %v", err)
		os.Exit(1)
	}

	// 6. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	logger := logrus.NewEntry(logrus.StandardLogger())

	// Setup API v1 routes
	v1.SetupRouter(r, db.GetDB(), cfg, sealer, logger)

	// Mount Socket.IO behind JWT handshake auth
	r.Any("/socket.io/*any", gin.WrapH(ws.WrapWithAuth(ws.Server)))

	log.Printf("✓ Server starting on %s", cfg.HTTPAddr)

	// Start server
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
