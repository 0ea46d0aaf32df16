package main

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jordan-wright/email"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/nasiyahub/ledger-engine/internal/config"
	"github.com/nasiyahub/ledger-engine/internal/domain"
	"github.com/nasiyahub/ledger-engine/internal/repository"
	"github.com/nasiyahub/ledger-engine/internal/service"
	"github.com/nasiyahub/ledger-engine/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logrus.New()
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	log.Info("Starting ledger scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	debtRepo := repository.NewDebtRepository(db)
	debtorRepo := repository.NewDebtorRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	storeRepo := repository.NewStoreRepository(db)

	// The scheduler computes fresh aggregates; no cache layer here.
	statsService := service.NewStatisticsService(storeRepo, debtorRepo, debtRepo, paymentRepo, nil, log,
		cfg.Business.LateBlockDays, cfg.Business.ReminderWindowDays)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone: %v", err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))
	setupCronJobs(c, cfg, log, storeRepo, statsService)

	c.Start()
	log.Info("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	c.Stop()
	log.Info("Scheduler stopped")
}

func setupCronJobs(
	c *cron.Cron,
	cfg *config.Config,
	log *logrus.Logger,
	storeRepo repository.StoreRepository,
	statsService *service.StatisticsService,
) {
	// Nightly wallet refresh across all active stores
	if _, err := c.AddFunc(cfg.Scheduler.WalletRefreshSpec, func() {
		refreshWallets(log, storeRepo, statsService)
	}); err != nil {
		log.Errorf("Error scheduling wallet refresh job: %v", err)
	}

	// Morning reminder digest per store
	if _, err := c.AddFunc(cfg.Scheduler.ReminderSpec, func() {
		sendReminderDigests(cfg, log, storeRepo, statsService)
	}); err != nil {
		log.Errorf("Error scheduling reminder digest job: %v", err)
	}

	log.Info("Cron jobs scheduled successfully")
}

func refreshWallets(log *logrus.Logger, storeRepo repository.StoreRepository, statsService *service.StatisticsService) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, err := storeRepo.ListActive(ctx)
	if err != nil {
		log.WithError(err).Error("wallet refresh: listing stores failed")
		return
	}

	for _, store := range stores {
		if err := statsService.RefreshStoreWallet(ctx, store.ID); err != nil {
			log.WithError(err).WithField("store_id", store.ID).Error("wallet refresh failed")
			continue
		}
	}

	log.WithField("stores", len(stores)).Info("wallet refresh completed")
}

func sendReminderDigests(cfg *config.Config, log *logrus.Logger, storeRepo repository.StoreRepository, statsService *service.StatisticsService) {
	if cfg.SMTP.Host == "" {
		log.Debug("reminder digest: SMTP not configured, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, err := storeRepo.ListActive(ctx)
	if err != nil {
		log.WithError(err).Error("reminder digest: listing stores failed")
		return
	}

	today := time.Now()
	for _, store := range stores {
		if store.Email == "" {
			continue
		}

		reminders, err := statsService.DailyReminders(ctx, store.ID, today)
		if err != nil {
			log.WithError(err).WithField("store_id", store.ID).Error("reminder digest: building feed failed")
			continue
		}
		if len(reminders) == 0 {
			continue
		}

		if err := sendDigest(cfg, store.Email, today, reminders); err != nil {
			log.WithError(err).WithField("store_id", store.ID).Error("reminder digest: send failed")
			continue
		}

		log.WithFields(logrus.Fields{"store_id": store.ID, "reminders": len(reminders)}).Info("reminder digest sent")
	}
}

func sendDigest(cfg *config.Config, to string, date time.Time, reminders []*domain.ReminderItem) error {
	var body strings.Builder
	fmt.Fprintf(&body, "Payments due around %s:\n\n", date.Format(utils.DateLayout))
	for _, item := range reminders {
		fmt.Fprintf(&body, "- %s: installment %s (period %d months, anchored on %s)\n",
			item.DebtorName, item.MonthSum.String(), item.DebtPeriod, item.PaymentDate.Format(utils.DateLayout))
	}

	e := email.NewEmail()
	e.From = cfg.SMTP.From
	e.To = []string{to}
	e.Subject = "Upcoming installment payments"
	e.Text = []byte(body.String())

	addr := cfg.SMTP.Host + ":" + cfg.SMTP.Port
	return e.Send(addr, smtp.PlainAuth("", cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.Host))
}
