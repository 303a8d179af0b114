package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/leo-park82/SMT-Management/handlers"
	"github.com/leo-park82/SMT-Management/models"
	"github.com/leo-park82/SMT-Management/repository"
	"github.com/leo-park82/SMT-Management/storage"
	"github.com/leo-park82/SMT-Management/utils"
)

var cronRunning int32

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()

	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000,http://localhost:5173"
	}
	corsConfig.AllowOrigins = strings.Split(origins, ",")

	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour // Cache preflight requests for 12 hours
	return corsConfig
}

// AuthRequired validates the bearer token and attaches the request actor.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}

		parsed, err := utils.ValidateJWT(token)
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok || claims["type"] != "access" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not an access token"})
			return
		}

		userID, _ := claims["user_id"].(string)
		name, _ := claims["name"].(string)
		role, _ := claims["role"].(string)
		if userID == "" || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		c.Set(handlers.ActorContextKey, models.Actor{UserID: userID, Name: name, Role: role})
		c.Next()
	}
}

// RoleRequired allows only the listed roles past. Runs after AuthRequired.
func RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := handlers.CurrentActor(c)
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// buildSwaggerDoc serves a Swagger 2.0 document assembled from the
// registered routes, so the UI always matches what the router serves.
func buildSwaggerDoc(engine *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prefer a generated doc when one is registered
		if doc, err := swag.ReadDoc("swagger"); err == nil && len(doc) > 100 {
			c.Header("Content-Type", "application/json")
			c.String(http.StatusOK, doc)
			return
		}

		paths := make(map[string]interface{})
		for _, route := range engine.Routes() {
			if strings.HasPrefix(route.Path, "/swagger") {
				continue
			}
			path := route.Path
			for _, seg := range strings.Split(route.Path, "/") {
				if strings.HasPrefix(seg, ":") {
					path = strings.Replace(path, seg, "{"+seg[1:]+"}", 1)
				}
			}
			if paths[path] == nil {
				paths[path] = make(map[string]interface{})
			}
			method := strings.ToLower(route.Method)
			op := map[string]interface{}{
				"summary":  route.Method + " " + route.Path,
				"tags":     []string{"API"},
				"produces": []string{"application/json"},
				"responses": map[string]interface{}{
					"200": map[string]interface{}{"description": "Success"},
					"400": map[string]interface{}{"description": "Bad Request"},
					"500": map[string]interface{}{"description": "Internal Server Error"},
				},
			}
			if method == "post" || method == "put" || method == "patch" {
				op["consumes"] = []string{"application/json"}
			}
			paths[path].(map[string]interface{})[method] = op
		}

		c.JSON(http.StatusOK, map[string]interface{}{
			"swagger": "2.0",
			"info": map[string]interface{}{
				"title":       "SMT Dashboard API",
				"description": "SMT factory dashboard backend: production, inventory, maintenance and daily equipment checks.",
				"version":     "1.0",
			},
			"host":     c.Request.Host,
			"basePath": "/",
			"schemes":  []string{"http", "https"},
			"paths":    paths,
		})
	}
}

func main() {
	store := storage.InitStore()
	users := storage.NewUserStore()
	sessions := storage.NewSessionStore(store)

	masterRepo := repository.NewMasterRepository(store)
	inventoryRepo := repository.NewInventoryRepository(store)
	productionRepo := repository.NewProductionRepository(store, inventoryRepo)
	maintenanceRepo := repository.NewMaintenanceRepository(store, masterRepo)
	checklistRepo := repository.NewChecklistRepository(store)

	// Daily maintenance at 00:10 plant time
	cronLogger := log.New(os.Stdout, "cron: ", log.LstdFlags)
	c := cron.New(
		cron.WithLocation(utils.KST),
		cron.WithLogger(cron.VerbosePrintfLogger(cronLogger)),
	)
	_, err := c.AddFunc("10 0 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			cronLogger.Println("Previous cron still running. Skipping this run.")
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		removed, err := sessions.CleanupExpiredSessions(ctx)
		if err != nil {
			cronLogger.Printf("Failed to clean up sessions: %v", err)
		} else {
			cronLogger.Printf("Removed %d expired sessions", removed)
		}

		if cached, ok := store.(*storage.CachedStore); ok {
			cached.Flush()
			cronLogger.Println("Store cache flushed")
		}

		// Snapshot yesterday's check completion per line
		yesterday := utils.NowKST().AddDate(0, 0, -1).Format(utils.DateLayout)
		lines, err := checklistRepo.Lines(ctx)
		if err != nil {
			cronLogger.Printf("Failed to load check lines: %v", err)
			return
		}
		for _, line := range lines {
			completion, err := checklistRepo.Completion(ctx, line, yesterday)
			if err != nil {
				cronLogger.Printf("Failed to compute completion for %s: %v", line, err)
				continue
			}
			cronLogger.Printf("Daily check %s %s: %d/%d (%s)",
				yesterday, line, completion.CheckedItems, completion.TotalItems, completion.State)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule daily maintenance cron job: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.Use(cors.New(CORSConfig()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth
	r.POST("/api/login", handlers.LoginHandler(users, sessions))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(users, sessions))
	r.GET("/api/validate-session", handlers.ValidateSessionHandler())
	r.POST("/api/logout", handlers.LogoutHandler(sessions))

	api := r.Group("/api", AuthRequired())
	writers := api.Group("", RoleRequired(models.RoleAdmin, models.RoleWorker))
	admin := api.Group("", RoleRequired(models.RoleAdmin))

	// Production
	api.GET("/production", handlers.GetProductionHandler(productionRepo))
	api.GET("/production/analysis", handlers.ProductionAnalysisHandler(productionRepo))
	writers.POST("/production", handlers.CreateProductionHandler(productionRepo))
	admin.DELETE("/production/:enteredAt", handlers.DeleteProductionHandler(productionRepo))

	// Inventory
	api.GET("/inventory", handlers.GetInventoryHandler(inventoryRepo))
	api.GET("/inventory/history", handlers.GetInventoryHistoryHandler(inventoryRepo))
	writers.POST("/inventory/adjust", handlers.AdjustInventoryHandler(inventoryRepo))
	admin.DELETE("/inventory/:itemCode", handlers.DeleteInventoryItemHandler(inventoryRepo))

	// Maintenance
	api.GET("/maintenance", handlers.GetMaintenanceHandler(maintenanceRepo))
	api.GET("/maintenance/analysis", handlers.MaintenanceAnalysisHandler(maintenanceRepo))
	writers.POST("/maintenance", handlers.CreateMaintenanceHandler(maintenanceRepo))
	admin.PUT("/maintenance/:enteredAt", handlers.UpdateMaintenanceHandler(maintenanceRepo))
	admin.DELETE("/maintenance/:enteredAt", handlers.DeleteMaintenanceHandler(maintenanceRepo))

	// Daily check
	api.GET("/daily-check/sheet", handlers.GetDailyCheckSheetHandler(checklistRepo))
	api.GET("/daily-check/status", handlers.DailyCheckStatusHandler(checklistRepo))
	api.GET("/daily-check/results", handlers.DailyCheckResultsHandler(checklistRepo))
	writers.POST("/daily-check", handlers.SubmitDailyCheckHandler(checklistRepo))

	// Master data
	api.GET("/items", handlers.GetItemsHandler(masterRepo))
	api.GET("/items/:itemCode", handlers.GetItemHandler(masterRepo))
	admin.PUT("/items", handlers.ReplaceItemsHandler(masterRepo))
	api.GET("/equipment", handlers.GetEquipmentHandler(masterRepo))
	admin.PUT("/equipment", handlers.ReplaceEquipmentHandler(masterRepo))
	api.GET("/check-master", handlers.GetCheckMasterHandler(checklistRepo))
	admin.PUT("/check-master", handlers.ReplaceCheckMasterHandler(checklistRepo))

	// Dashboard, reports and exports
	api.GET("/dashboard", handlers.DashboardHandler(productionRepo, inventoryRepo, maintenanceRepo, checklistRepo))
	api.GET("/reports/production", handlers.ProductionReportHandler(productionRepo, inventoryRepo))
	api.GET("/reports/daily-check", handlers.DailyCheckReportHandler(checklistRepo))
	api.GET("/export/:table", handlers.ExportTableHandler(store))
	api.GET("/qr/equipment/:id", handlers.EquipmentQRHandler(masterRepo))

	// Swagger
	swaggerDoc := buildSwaggerDoc(r)
	r.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/doc.json" {
			swaggerDoc(c)
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"))(c)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil || portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT environment variable: %s", port)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
