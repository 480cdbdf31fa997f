package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/cprservices/clinic-scheduler/internal/config"
	dbpkg "github.com/cprservices/clinic-scheduler/internal/db"
	"github.com/cprservices/clinic-scheduler/internal/middleware"
	"github.com/cprservices/clinic-scheduler/internal/redislock"
	"github.com/cprservices/clinic-scheduler/internal/routes"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	locker := redislock.NewRedisSlotLocker(redisClient, cfg.SlotLockTTL)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, locker, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
