package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/axellelanca/itrules/cmd"
	"github.com/axellelanca/itrules/internal/api"
	"github.com/axellelanca/itrules/internal/metrics"
	"github.com/axellelanca/itrules/internal/monitor"
	"github.com/axellelanca/itrules/internal/report"
	"github.com/axellelanca/itrules/internal/repository"
	"github.com/axellelanca/itrules/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// RunServerCmd starts the reference logger service.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Run the reference logger service.",
	Long: `Opens and migrates the database, serves the add_link, get_links,
log_download, get_logs and export endpoints plus /metrics, and optionally
runs the URL monitor that marks unreachable links as Taken Down.`,
	Run: func(c *cobra.Command, args []string) {
		cfg := cmd.Cfg
		log := logrus.StandardLogger()

		loc, err := cfg.Location()
		if err != nil {
			log.WithError(err).Fatal("invalid timezone")
		}

		db, err := repository.Open(cfg.Database.Name)
		if err != nil {
			log.WithError(err).Fatal("failed to open database")
		}
		if err := repository.Migrate(db); err != nil {
			log.WithError(err).Fatal("failed to migrate database")
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.WithError(err).Fatal("failed to get underlying SQL database")
		}
		defer sqlDB.Close()

		violationRepo := repository.NewViolationRepository(db)
		logRepo := repository.NewDownloadLogRepository(db)
		log.Info("repositories initialised")

		reg := prometheus.NewRegistry()
		collector := metrics.NewCollector(reg)

		handlers := &api.Handlers{
			Violations:     services.NewViolationService(violationRepo),
			Logs:           services.NewDownloadLogService(logRepo),
			Reports:        services.NewReportService(violationRepo, report.Options{}),
			Location:       loc,
			Logger:         log,
			Metrics:        collector,
			MetricsHandler: metrics.Handler(reg),
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Monitor.Enabled {
			urlMonitor := monitor.NewUrlMonitor(violationRepo, cfg.MonitorInterval(), log).WithMetrics(collector)
			go urlMonitor.Start(ctx)
		}

		router := gin.New()
		router.Use(gin.Recovery())
		api.SetupRoutes(router, handlers)
		log.Info("API routes configured")

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: router,
		}

		go func() {
			log.WithField("addr", srv.Addr).Info("starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Fatal("server failed")
			}
		}()

		<-ctx.Done()
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("forced shutdown")
			return
		}
		log.Info("server stopped")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
