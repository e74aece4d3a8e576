package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/ganot/projectboard/internal/config"
	"github.com/ganot/projectboard/internal/domain/activity"
	"github.com/ganot/projectboard/internal/domain/project"
	"github.com/ganot/projectboard/internal/eventloop"
	"github.com/ganot/projectboard/internal/mcp"
	"github.com/ganot/projectboard/internal/sqlite"
	"github.com/ganot/projectboard/internal/state"
	"github.com/ganot/projectboard/internal/transport"
	"github.com/ganot/projectboard/internal/ui"
	"github.com/spf13/cobra"
)

const (
	loopQueueSize   = 64
	shutdownTimeout = 5 * time.Second
)

var (
	flagTransport string
	flagHost      string
	flagPort      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the board server",
	Long: `Run the board over HTTP (page, JSON API and MCP at /mcp) or serve MCP
over stdin/stdout.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&flagTransport, "transport", "", "transport mode: http or stdio")
	serveCmd.Flags().StringVar(&flagHost, "host", "", "listen host")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "listen port")
}

// loadConfig layers flags over the file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("transport") {
		cfg.Transport.Mode = flagTransport
	}
	if flags.Changed("host") {
		cfg.Server.Host = flagHost
	}
	if flags.Changed("port") {
		cfg.Server.Port = flagPort
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("PROJECTBOARD_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open activity journal: %w", err)
	}
	defer db.Close()

	store := state.Default()
	registry := project.DefaultRegistry()

	// Views subscribe first so they render before anything else observes a change.
	board, err := ui.NewBoard(store, registry)
	if err != nil {
		return fmt.Errorf("build board: %w", err)
	}
	journal := activity.NewService(sqlite.NewActivityRepository(db), logger, &logObserver{logger: logger})
	store.AddListener(journal.Observe)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := eventloop.New(loopQueueSize, logger)
	mcpServer := mcp.NewServer(mcp.Config{
		Loop:     loop,
		Store:    store,
		Registry: registry,
		Activity: journal,
		Logger:   logger,
	})
	go func() {
		_ = loop.Run(ctx)
	}()

	if cfg.Transport.Mode == config.TransportStdio {
		logger.Info("starting stdio transport")
		return mcpServer.ServeStdio(ctx)
	}
	return serveHTTP(ctx, logger, cfg, transport.Options{
		Loop:      loop,
		Board:     board,
		Journal:   journal,
		Assets:    ui.Assets(),
		MCP:       mcpServer.HTTPHandler(),
		AuthToken: cfg.Auth.Token,
		Logger:    logger,
	})
}

func serveHTTP(ctx context.Context, logger *slog.Logger, cfg config.Config, opts transport.Options) error {
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           transport.NewServer(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr, "auth", cfg.Auth.Token != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// logObserver writes journal events to the log at debug level.
type logObserver struct {
	logger *slog.Logger
}

func (o *logObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	o.logger.DebugContext(ctx, "board event", "type", event.Type(), "subject", event.Subject(), "id", event.ID())
	return nil
}

func (o *logObserver) ObserverID() string {
	return "log"
}
