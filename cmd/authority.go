package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dns-ledger-sim/authority"
	"dns-ledger-sim/db"
	"dns-ledger-sim/handlers"
	"dns-ledger-sim/logger"
	"dns-ledger-sim/repository"
	"dns-ledger-sim/routers"
	"dns-ledger-sim/screening"
)

func newAuthorityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "authority",
		Short:   "Run the decision authority service",
		PreRunE: loadConfig,
		RunE:    runAuthority,
	}
	cmd.Flags().Int("authority.port", 5000, "Listen port")
	cmd.Flags().Duration("authority.submit_delay", 3*time.Second, "Delay before each voting round")
	cmd.Flags().String("leveldb.path", "", "LevelDB directory (in-memory when empty)")
	cmd.Flags().String("screening.dnsbl_zone", "zen.spamhaus.org", "DNS blocklist zone (disabled when empty)")
	return cmd
}

func runAuthority(cmd *cobra.Command, args []string) error {
	logger.Logger.Info("Starting decision authority...")

	// Connect to LevelDB
	ldb, err := db.NewLevelDB(cfg.LevelDB.Path)
	if err != nil {
		logger.Logger.Error("Failed to open leveldb", zap.Error(err))
		return err
	}
	defer ldb.Close()

	chainRepo := repository.NewChainRepository(ldb)

	screener := &screening.Screener{EntropyThreshold: cfg.Screening.EntropyThreshold}
	if cfg.Screening.DNSBLZone != "" {
		screener.Blocklist = screening.NewDNSBL(cfg.Screening.DNSBLZone)
	}

	network := authority.NewNetwork(chainRepo, screener, cfg.Authority.Validators, cfg.Authority.SubmitDelay)
	h := handlers.NewHandler(network)

	r := mux.NewRouter()
	routers.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Authority.Port),
		Handler: r,
	}
	return serve(srv, cfg.Authority.Port)
}

// serve runs srv until SIGINT or SIGTERM.
func serve(srv *http.Server, port int) error {
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			logger.Logger.Info("Server stopped", zap.Error(err))
		}
	}()

	logger.Logger.Info("Server running on port", zap.Int("port", port))

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Logger.Info("Shutdown signal received, exiting...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
