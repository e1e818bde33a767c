package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"kdsgroup.co.in/hms/config"
	"kdsgroup.co.in/hms/handlers"
	"kdsgroup.co.in/hms/middleware"
	"kdsgroup.co.in/hms/pkg/estimation"
	"kdsgroup.co.in/hms/pkg/hmsapi"
	"kdsgroup.co.in/hms/pkg/session"
	"kdsgroup.co.in/hms/pkg/snapshot"
	"kdsgroup.co.in/hms/pkg/storage"
	"kdsgroup.co.in/hms/pkg/submission"
	"kdsgroup.co.in/hms/routes"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {
	root := &cobra.Command{
		Use:           "hms",
		Short:         "Handpump Maintenance System gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Version:   %s\n", Version)
			fmt.Printf("BuildTime: %s\n", BuildTime)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := config.NewLogger(cfg.Env)
			if err != nil {
				return err
			}
			defer log.Sync()

			if !cfg.HasDatabase() {
				return errors.New("DB_DSN is not set")
			}
			db, err := config.Connect(cfg.DSN, log)
			if err != nil {
				return err
			}
			if err := config.Migrations(db); err != nil {
				return fmt.Errorf("could not run migrations: %w", err)
			}
			log.Info("✅ migrations applied")
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			log, err := config.NewLogger(cfg.Env)
			if err != nil {
				return err
			}
			defer log.Sync()
			return serve(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg config.Settings, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := hmsapi.New(cfg.HMSBaseURL, hmsapi.WithLogger(log))

	var (
		sessions    session.Store
		snapshots   snapshot.Store
		submissions submission.Recorder
	)
	if cfg.HasDatabase() {
		db, err := config.Connect(cfg.DSN, log)
		if err != nil {
			return err
		}
		if err := config.Migrations(db); err != nil {
			return fmt.Errorf("could not run migrations: %w", err)
		}
		gs := session.NewGormStore(db)
		go purgeSessions(ctx, gs, log)
		sessions = gs
		snapshots = snapshot.NewGormStore(db, cfg.CacheTTL, log)
		submissions = submission.NewGormRecorder(db)
	} else {
		log.Warn("⚠️  DB_DSN not set, keeping sessions and snapshots in memory")
		sessions = session.NewMemoryStore()
		snapshots = snapshot.NewMemoryStore(cfg.CacheTTL)
		submissions = submission.NewMemoryRecorder()
	}

	var uploader storage.Uploader
	if cfg.UseGCS {
		gcs, err := storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			return err
		}
		defer gcs.Close()
		uploader = gcs
		log.Info("☁️  uploading photos to GCS", zap.String("bucket", cfg.GCSBucket))
	} else {
		uploader = storage.NewLocalUploader(cfg.UploadDir)
		log.Info("📁 uploading photos locally", zap.String("dir", cfg.UploadDir))
	}

	catalogue, err := estimation.LoadCatalogue(cfg.CatalogueFile)
	if err != nil {
		return err
	}

	auth := middleware.NewAuth(cfg.JWTSecret, cfg.SessionTTL, sessions, session.NewSealer(cfg.SessionKey), log)
	h := handlers.New(handlers.Deps{
		API:         api,
		Auth:        auth,
		Snapshots:   snapshots,
		Submissions: submissions,
		Uploader:    uploader,
		Catalogue:   catalogue,
		CacheTTL:    cfg.CacheTTL,
		Log:         log,
	})

	uploadDir := ""
	if !cfg.UseGCS {
		uploadDir = cfg.UploadDir
	}
	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: routes.RegisterRoutes(h, auth, routes.Options{
			UploadDir:   uploadDir,
			Version:     Version,
			CORSOrigins: cfg.CORSOrigins,
			Log:         log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 server starting", zap.String("port", cfg.Port), zap.String("upstream", cfg.HMSBaseURL))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("🛑 shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func purgeSessions(ctx context.Context, store *session.GormStore, log *zap.Logger) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Warn("purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
