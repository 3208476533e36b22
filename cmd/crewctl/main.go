package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"crewboard/internal/cli"
	"crewboard/internal/config"
	grpcTransport "crewboard/internal/transport/grpc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(2)
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "crewctl"),
	)

	conn, err := grpcTransport.Dial(cfg.ServerAddr)
	if err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(2)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warn("connection close failed", slog.Any("err", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(&cli.RootOptions{
		Client:           grpcTransport.NewCrewClient(conn),
		Location:         cfg.ClubLocation,
		QuiescenceWindow: cfg.QuiescenceWindow,
		Logger:           log,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		cli.PrintError(os.Stderr, err)
		stop()
		_ = conn.Close()
		os.Exit(1)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
