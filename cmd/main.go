package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mattduff36/avsworklog-sub000/internal/auth"
	"github.com/mattduff36/avsworklog-sub000/internal/db"
	"github.com/mattduff36/avsworklog-sub000/internal/handlers"
	"github.com/mattduff36/avsworklog-sub000/internal/lookup"
	"github.com/mattduff36/avsworklog-sub000/internal/middleware"
	"github.com/mattduff36/avsworklog-sub000/internal/notify"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded")
	}

	log.SetFormatter(&log.JSONFormatter{})
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "avsworklog"
	}
	database := client.Database(dbName)

	assets := &db.MongoAssetCollection{Collection: database.Collection("assets")}
	maintenanceRecords := &db.MongoMaintenanceCollection{Collection: database.Collection("maintenance_records")}
	if err := maintenanceRecords.EnsureIndexes(context.Background()); err != nil {
		log.WithError(err).Fatal("failed to ensure maintenance indexes")
	}
	history := &db.MongoHistoryCollection{Collection: database.Collection("maintenance_history")}
	tasks := &db.MongoTaskCollection{Collection: database.Collection("workshop_tasks")}
	comments := &db.MongoCommentCollection{Collection: database.Collection("workshop_comments")}
	snapshots := &db.MongoSnapshotCollection{
		Vehicles:   database.Collection("vehicle_snapshots"),
		MotHistory: database.Collection("mot_history_snapshots"),
	}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("failed to create auth service")
	}

	cache := lookup.ConnectRedis(context.Background())
	lookupClient := lookup.NewClient(cache)

	publisher, err := notify.NewPublisher()
	if err != nil {
		log.WithError(err).Warn("event publishing disabled")
	}
	defer publisher.Close()

	authHandler := handlers.NewAuthHandler(authService, users)
	assetHandler := handlers.NewAssetHandler(assets, maintenanceRecords, snapshots)
	maintenanceHandler := handlers.NewMaintenanceHandler(assets, maintenanceRecords, history, publisher)
	taskHandler := handlers.NewTaskHandler(tasks, comments, assets, publisher)
	lookupHandler := handlers.NewLookupHandler(lookupClient, snapshots)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	router := newRouter(authMiddleware, authHandler, assetHandler, maintenanceHandler, taskHandler, lookupHandler, healthHandler(client))

	rateLimiter := middleware.NewRateLimitMiddleware()
	handler := rateLimiter.RateLimit(300, 60)(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("server listening")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// newRouter wires the route table. Mutating routes are registered with
// method-specific patterns and wrapped with the permission check for
// their action, so a viewer token can read everything but change
// nothing.
func newRouter(
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handlers.AuthHandler,
	assetHandler *handlers.AssetHandler,
	maintenanceHandler *handlers.MaintenanceHandler,
	taskHandler *handlers.TaskHandler,
	lookupHandler *handlers.LookupHandler,
	health http.HandlerFunc,
) http.Handler {
	mux := http.NewServeMux()

	permit := func(action string, h http.HandlerFunc) http.Handler {
		return authMiddleware.RequirePermission(action)(h)
	}

	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			authHandler.UpdateProfile(w, r)
			return
		}
		authHandler.GetProfile(w, r)
	})
	mux.HandleFunc("/api/auth/change-password", authHandler.ChangePassword)

	mux.HandleFunc("GET /api/assets", assetHandler.List)
	mux.Handle("POST /api/assets", permit("manage_assets", assetHandler.Create))
	mux.HandleFunc("GET /api/assets/{id}", assetHandler.Get)
	mux.Handle("POST /api/assets/{id}/retire", permit("manage_assets", assetHandler.Retire))
	mux.HandleFunc("GET /api/assets/{id}/status", assetHandler.Status)
	mux.HandleFunc("GET /api/assets/{id}/details", assetHandler.Details)
	mux.HandleFunc("GET /api/assets/{id}/maintenance", maintenanceHandler.Record)
	mux.Handle("PUT /api/assets/{id}/maintenance", permit("update_maintenance", maintenanceHandler.Record))
	mux.HandleFunc("GET /api/assets/{id}/maintenance/history", maintenanceHandler.History)

	mux.HandleFunc("GET /api/tasks", taskHandler.Tasks)
	mux.Handle("POST /api/tasks", permit("create_task", taskHandler.Tasks))
	mux.HandleFunc("GET /api/tasks/{id}", taskHandler.Get)
	mux.Handle("POST /api/tasks/{id}/start", permit("transition_task", taskHandler.Start))
	mux.Handle("POST /api/tasks/{id}/hold", permit("transition_task", taskHandler.Hold))
	mux.Handle("POST /api/tasks/{id}/resume", permit("transition_task", taskHandler.Resume))
	mux.Handle("POST /api/tasks/{id}/undo", permit("transition_task", taskHandler.Undo))
	mux.Handle("POST /api/tasks/{id}/complete", permit("transition_task", taskHandler.Complete))
	mux.HandleFunc("GET /api/tasks/{id}/comments", taskHandler.Comments)
	mux.Handle("POST /api/tasks/{id}/comments", permit("comment_task", taskHandler.Comments))

	mux.HandleFunc("GET /api/lookup/{registration}", lookupHandler.Lookup)

	mux.HandleFunc("/health", health)

	return authMiddleware.Authenticate(mux)
}

func healthHandler(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := client.Ping(r.Context(), nil); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
