package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	awsclient "github.com/yourusername/s3-file-exporter/aws"
	"github.com/yourusername/s3-file-exporter/config"
	"github.com/yourusername/s3-file-exporter/exporter"
	"github.com/yourusername/s3-file-exporter/logger"
	"github.com/yourusername/s3-file-exporter/minio"
	"github.com/yourusername/s3-file-exporter/server"
	"github.com/yourusername/s3-file-exporter/types"
)

var (
	configPath string
	port       int
	logLevel   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "s3-file-exporter [config file]",
	Short: "Expose freshness metrics for files in S3 folders",
	Long: `s3-file-exporter is a Prometheus exporter that lists folders of an S3 bucket
on every scrape and reports, per folder and file pattern:
  - timestamp and size of the newest and oldest matching file
  - the number of matching files
  - whether the listing succeeded`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExporter,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path of the config file")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "Exporter port (overrides exporter_port)")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "Log level (overrides log_level)")
}

func runExporter(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("a config file is required")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port != 0 {
		cfg.ExporterPort = port
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	if err != nil {
		return err
	}
	log.DebugWith("Config", map[string]interface{}{
		"bucket":   cfg.Bucket,
		"folders":  cfg.Folders,
		"patterns": cfg.Patterns,
		"driver":   cfg.Driver,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lister, err := newLister(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create %s client: %w", cfg.Driver, err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	collector, err := exporter.NewCollector(lister, exporter.Options{
		Bucket:           cfg.Bucket,
		Folders:          cfg.Folders,
		Patterns:         cfg.Patterns,
		SmartFolderDate:  cfg.SmartFolderDate,
		SmartPatternDate: cfg.SmartPatternDate,
		BaseDate:         cfg.BaseDate,
		Location:         loc,
		PageSize:         cfg.PageSize,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to create collector: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collector,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := server.New(cfg.Address(), cfg.MetricsPath, registry, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newLister builds the listing backend selected by the driver setting
func newLister(ctx context.Context, cfg *config.Configuration) (types.Lister, error) {
	switch cfg.Driver {
	case config.DriverMinIO:
		return minio.New(minio.Options{
			HostBase:     cfg.HostBase,
			AccessKey:    cfg.AccessKey,
			SecretKey:    cfg.SecretKey,
			SessionToken: cfg.SessionToken,
			UseHTTPS:     cfg.HTTPS(),
			Region:       cfg.Region,
		})
	default:
		return awsclient.NewClient(ctx, awsclient.Options{
			Region:         cfg.Region,
			AccessKey:      cfg.AccessKey,
			SecretKey:      cfg.SecretKey,
			SessionToken:   cfg.SessionToken,
			HostBase:       cfg.HostBase,
			UseHTTPS:       cfg.HTTPS(),
			ForcePathStyle: cfg.ForcePathStyle,
		})
	}
}
