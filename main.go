package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kanban-board/config"
	"kanban-board/handlers"
	"kanban-board/logging"
	"kanban-board/repositories"
	"kanban-board/services"
	"kanban-board/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

type stores struct {
	users  repositories.UserRepository
	tasks  repositories.TaskRepository
	pinger repositories.Pinger
	client *mongo.Client
}

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath, ".env")
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}
	logging.InitLogger(cfg)
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting kanban board API...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: %v", err)
	}

	validator, err := validation.New()
	if err != nil {
		logging.Logger.Fatalf("Event ID: SCHEMA_COMPILE_FAILED, Description: %v", err)
	}

	jwtService := services.NewJWTService(cfg)
	userService := services.NewUserService(st.users, jwtService, cfg)
	taskService := services.NewTaskService(st.tasks)

	router := handlers.NewRouter(
		handlers.NewAuthHandler(userService, validator),
		handlers.NewTaskHandler(taskService, validator),
		handlers.NewHealthHandler(st.pinger),
		jwtService,
		cfg.CORSOrigin,
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: %v", err)
	}
	if st.client != nil {
		if err := st.client.Disconnect(shutdownCtx); err != nil {
			logging.Logger.Errorf("Event ID: DB_DISCONNECT_FAILED, Description: %v", err)
		}
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		logging.Logger.Warn("Event ID: STORE_IN_MEMORY, Description: Using in-memory store, data is lost on restart")
		return &stores{
			users:  repositories.NewMemoryUserRepo(),
			tasks:  repositories.NewMemoryTaskRepo(),
			pinger: repositories.MemoryPinger{},
		}, nil
	}

	client, err := repositories.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDBName)

	users := repositories.NewUserRepo(db.Collection(cfg.UsersCollection), repositories.NewStoreBreaker("users-store", cfg))
	tasks := repositories.NewTaskRepo(db.Collection(cfg.TasksCollection), repositories.NewStoreBreaker("tasks-store", cfg))

	indexCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout.Duration)
	defer cancel()
	if err := users.EnsureIndexes(indexCtx); err != nil {
		return nil, err
	}
	if err := tasks.EnsureIndexes(indexCtx); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: DB_COLLECTION_SET, Description: Using MongoDB collections %s/%s and %s/%s",
		cfg.MongoDBName, cfg.UsersCollection, cfg.MongoDBName, cfg.TasksCollection)

	return &stores{users: users, tasks: tasks, pinger: repositories.ClientPinger{Client: client}, client: client}, nil
}
