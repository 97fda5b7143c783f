package main

import (
	"chat-core/httpapi"
	"chat-core/repositories"
	"chat-core/services"
	"chat-core/workers"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the server lifecycle so every
// defer (database close in particular) executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories & Services
	userRepository := repositories.NewUserRepository(db)
	conversationRepository := repositories.NewConversationRepository(db)
	membershipRepository := repositories.NewMembershipRepository(db)
	messageRepository := repositories.NewMessageRepository(db)
	reactionRepository := repositories.NewReactionRepository(db)
	typingRepository := repositories.NewTypingRepository(db)

	identityService := services.NewIdentityService(userRepository, log)
	membershipService := services.NewMembershipService(membershipRepository, identityService, log)
	directoryService := services.NewDirectoryService(userRepository, conversationRepository, identityService, log)
	reactionService := services.NewReactionService(reactionRepository, messageRepository, membershipService, identityService, log)
	messageService := services.NewMessageService(messageRepository, userRepository, reactionService, membershipService, identityService, log)
	typingService := services.NewTypingService(typingRepository, userRepository, membershipService, identityService, log)
	feedService := services.NewFeedService(conversationRepository, membershipRepository, messageRepository, userRepository, identityService, log)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Background workers
	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	supervisor.Add(workers.NewTypingSweeper(typingRepository, log, config.TypingSweepInterval))
	supervisor.Start(ctx)

	// 6. HTTP server
	handlers := httpapi.NewHandlers(
		identityService, directoryService, membershipService,
		messageService, reactionService, typingService, feedService,
	)
	router := httpapi.NewRouter(handlers, []byte(config.AuthTokenSecret), log)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", server.Addr, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown did not complete", "error", err)
	}
	supervisor.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
