package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/api"
	"github.com/sells-group/profile-cli/internal/match"
	"github.com/sells-group/profile-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve fuzzy company lookups over HTTP",
	Long: `Loads the profile snapshot from the configured store and answers
GET /company/search queries by name, domain, phone or facebook URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
		if err != nil {
			return eris.Wrap(err, "serve: open store")
		}
		defer st.Close()

		snap, err := st.Load(ctx)
		if err != nil {
			return eris.Wrap(err, "serve: load snapshot")
		}

		holder := &store.Holder{}
		holder.Swap(snap)
		zap.L().Info("snapshot loaded",
			zap.String("run_id", snap.RunID),
			zap.Int("profiles", len(snap.Profiles)),
		)

		engine := match.NewEngine(cfg.Match.Weights, cfg.Match.Region)
		server := api.NewServer(engine, holder, cfg.Server.MinScore)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.Handler(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
