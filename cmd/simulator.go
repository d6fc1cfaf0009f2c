package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dns-ledger-sim/client"
	"dns-ledger-sim/clock"
	"dns-ledger-sim/handlers"
	"dns-ledger-sim/logger"
	"dns-ledger-sim/render"
	"dns-ledger-sim/routers"
	"dns-ledger-sim/simulation"
)

func newSimulatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "simulator",
		Short:   "Run the simulation engine and its control API",
		PreRunE: loadConfig,
		RunE:    runSimulator,
	}
	cmd.Flags().Int("server.port", 8080, "Listen port")
	cmd.Flags().String("authority.url", "http://localhost:5000", "Decision authority base URL")
	cmd.Flags().Duration("authority.timeout", 0, "Authority request timeout (0 waits forever)")
	cmd.Flags().Bool("render.terminal", true, "Draw the simulation in the terminal")
	return cmd
}

func runSimulator(cmd *cobra.Command, args []string) error {
	logger.Logger.Info("Starting simulator...", zap.String("authority", cfg.Authority.URL))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := clock.NewLoop(cfg.Simulation.FrameInterval)
	go loop.Run(ctx)

	timing := simulation.Timing{
		VoteDelay:         cfg.Simulation.VoteDelay,
		ResetDelay:        cfg.Simulation.ResetDelay,
		AnimationDuration: cfg.Simulation.AnimationDuration,
		FadeStart:         cfg.Simulation.FadeStart,
		LogDisplay:        cfg.Simulation.LogDisplay,
	}
	engine := simulation.NewEngine(loop, client.New(cfg.Authority.URL, cfg.Authority.Timeout), timing)

	var surfaces render.Multi
	var stream http.HandlerFunc
	if cfg.Render.Websocket {
		hub := render.NewHub()
		defer hub.Close()
		surfaces = append(surfaces, hub)
		stream = hub.Handle
	}
	if cfg.Render.Terminal {
		term, err := render.NewTerminal(cfg.Render.TerminalInterval)
		if err != nil {
			return err
		}
		defer term.Close()
		surfaces = append(surfaces, term)
	}
	if err := loop.Do(ctx, func() { engine.SetSurface(surfaces) }); err != nil {
		return err
	}

	h := handlers.NewSimulatorHandler(engine, loop)
	r := mux.NewRouter()
	routers.RegisterSimulatorRoutes(r, h, stream)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}
	return serve(srv, cfg.Server.Port)
}
