package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"command-center/domain/repository"
	"command-center/infrastructure/cache"
	githubclient "command-center/infrastructure/clients/github"
	llmclient "command-center/infrastructure/clients/llm"
	"command-center/infrastructure/configuration"
	"command-center/infrastructure/logger"
	"command-center/infrastructure/persistence"
	"command-center/infrastructure/pubsub"
	"command-center/infrastructure/realtime"
	"command-center/infrastructure/servicebus"
	httpHandler "command-center/interfaces/http"
	"command-center/server"
	"command-center/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	coreDb, psqlDb, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
	}

	contentDb, err := persistence.NewRepositories()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Content database not available - continuing without content pipeline")
		contentDb = nil
	}

	mongoDb, err := persistence.NewMongoDb(
		configuration.C.Database.Mongo.Host,
		configuration.C.Database.Mongo.Port,
		configuration.C.Database.Mongo.User,
		configuration.C.Database.Mongo.Password,
		configuration.C.Database.Mongo.Name,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB not available - continuing without webhook landing store")
		mongoDb = nil
	} else if err := mongoDb.Ping(ctx, nil); err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB ping failed - continuing without webhook landing store")
		mongoDb = nil
	}

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - webhook fan-out disabled")
		pubSubClient = nil
	}

	azServiceBusClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - email queue disabled")
		azServiceBusClient = nil
	}

	redisClient, _ := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)

	// Core store schema. Postgres carries the integration, notification and
	// workspace tables; the MSSQL production path only handles users + tokens.
	if psqlDb != nil {
		for name, ensure := range map[string]func(*sql.DB) error{
			"user":         persistence.EnsureUserSchema,
			"integration":  persistence.EnsureIntegrationSchema,
			"notification": persistence.EnsureNotificationSchema,
			"workspace":    persistence.EnsureWorkspaceSchema,
		} {
			if err := ensure(psqlDb); err != nil {
				logger.GetLogger().WithField("error", err).WithField("schema", name).Error("Schema migration failed")
			}
		}
	}

	// Repository wiring: MSSQL in production, otherwise PostgreSQL.
	var userRepository repository.IUser
	var tokenRepository repository.IOAuthToken
	if psqlDb == nil {
		userRepository = persistence.NewUserRepositoryMSSQL(coreDb)
		tokenRepository = persistence.NewOAuthTokenRepositoryMSSQL(coreDb)
	} else {
		userRepository = persistence.NewUserRepository(psqlDb)
		tokenRepository = persistence.NewOAuthTokenRepository(psqlDb)
	}

	workspaceDb := psqlDb
	if workspaceDb == nil {
		workspaceDb = coreDb
	}
	statusRepository := persistence.NewIntegrationStatusRepository(workspaceDb)
	idempotencyRepository := persistence.NewIdempotencyRepository(workspaceDb)
	notificationRepository := persistence.NewNotificationRepository(workspaceDb)
	preferenceRepository := persistence.NewNotificationPreferenceRepository(workspaceDb)
	noteRepository := persistence.NewResearchNoteRepository(workspaceDb)
	agentRepository := persistence.NewAgentRepository(workspaceDb)
	contentRepository := persistence.NewContentRepository(contentDb)
	webhookRepository := persistence.NewWebhookEventRepository(mongoDb)

	gh := githubclient.NewGitHubClient(&githubclient.Config{
		BaseURL: configuration.C.GitHub.APIBaseURL,
		Timeout: time.Duration(configuration.C.GitHub.TimeoutSeconds) * time.Second,
	})
	llm := llmclient.NewLLMClient(&llmclient.Config{
		Endpoint: configuration.C.LLM.Endpoint,
		APIKey:   configuration.C.LLM.APIKey,
		Model:    configuration.C.LLM.Model,
		Timeout:  time.Duration(configuration.C.LLM.TimeoutSeconds) * time.Second,
	})

	repoCache := cache.NewRepoCache(redisClient)
	eventPublisher := pubsub.NewEventPublisher(pubSubClient)
	emailQueue := servicebus.NewEmailQueue(azServiceBusClient, configuration.C.ServiceBus.Queue)
	notificationHub := realtime.NewNotificationHub()

	userUsecase := usecase.NewUserUsecase(userRepository)
	githubUsecase := usecase.NewGitHubUsecase(gh, tokenRepository, statusRepository, idempotencyRepository, llm, repoCache, usecase.GitHubOAuthConfig{
		ClientID:     configuration.C.GitHub.ClientID,
		ClientSecret: configuration.C.GitHub.ClientSecret,
		RedirectURI:  configuration.C.GitHub.RedirectURI,
	})
	notificationUsecase := usecase.NewNotificationUsecase(notificationRepository, preferenceRepository, emailQueue, notificationHub)
	noteUsecase := usecase.NewResearchNoteUsecase(noteRepository, llm)
	contentUsecase := usecase.NewContentUsecase(contentRepository)
	agentUsecase := usecase.NewAgentUsecase(agentRepository, llm)
	webhookUsecase := usecase.NewWebhookUsecase(webhookRepository, eventPublisher, configuration.C.GitHub.WebhookSecret)
	dashboardUsecase := usecase.NewDashboardUsecase(notificationUsecase, noteUsecase, contentUsecase, githubUsecase)

	router := server.InitiateRouter(
		httpHandler.NewUserHandler(userUsecase),
		httpHandler.NewGitHubOAuthHandler(githubUsecase),
		httpHandler.NewGitHubHandler(githubUsecase),
		httpHandler.NewWebhookHandler(webhookUsecase),
		httpHandler.NewNotificationHandler(notificationUsecase, notificationHub),
		httpHandler.NewResearchNoteHandler(noteUsecase),
		httpHandler.NewContentHandler(contentUsecase),
		httpHandler.NewAgentHandler(agentUsecase),
		httpHandler.NewDashboardHandler(dashboardUsecase),
		userRepository,
	)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			} else {
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if mongoDb != nil {
		_ = mongoDb.Disconnect(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateDatabase returns (coreDB, psqlDB). In production coreDB is MSSQL
// and psqlDB may be nil; locally both point at PostgreSQL.
func InitiateDatabase() (*sql.DB, *sql.DB, error) {
	env := os.Getenv("ENV")
	if v := os.Getenv("DB_VENDOR"); v == "mssql" {
		mssql, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL (DB_VENDOR=mssql)")
			return nil, nil, err
		}
		return mssql, nil, nil
	}
	if env == "production" || env == "prod" {
		mssql, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL (production)")
			return nil, nil, err
		}
		return mssql, nil, nil
	}

	postgres, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to the local database")
		return nil, nil, err
	}
	return postgres, postgres, nil
}
