package main

import (
	"errors"
	"os/signal"
	"syscall"
	"time"

	"substitution_notification_bot/internal/app"
	"substitution_notification_bot/internal/domain/catalog"
	"substitution_notification_bot/internal/infra/config"
	"substitution_notification_bot/internal/infra/edupage"
	"substitution_notification_bot/internal/infra/logger"
	"substitution_notification_bot/internal/infra/memory"
	"substitution_notification_bot/internal/infra/scheduler"
	"substitution_notification_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/telebot.v3"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the Telegram bot and the notification scheduler",
		RunE:  runBot,
	}
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is not set")
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"window":      []int{cfg.WindowStartHour, cfg.WindowEndHour},
		"timezone":    cfg.Location.String(),
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{"sender_id": c.Sender().ID, "chat_id": c.Chat().ID})
			}
			entry.Error("Unhandled bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Error("Could not create Telegram bot")
		return err
	}

	store := memory.NewSubscriptionStore()
	fetcher := edupage.NewClient(cfg.PortalURL, edupage.DefaultHTTPClient(cfg.PortalTimeout), cfg.PortalFetchAttempts)
	now := func() time.Time { return time.Now().In(cfg.Location) }

	queryService := app.NewQueryService(store, fetcher, now, logger.Component("query"))
	commandService := app.NewCommandService(store, catalog.Default(), queryService, logger.Component("commands"))
	notifService := app.NewNotificationServiceImpl(
		store,
		fetcher,
		telegram.NewTelebotAdapter(bot),
		app.Window{StartHour: cfg.WindowStartHour, EndHour: cfg.WindowEndHour},
		logger.Component("dispatcher"),
	)

	telegram.RegisterBotCommandHandlers(ctx, bot, commandService, logger.Component("telegram"))

	notifScheduler := scheduler.NewNotificationScheduler(notifService, logger.Component("scheduler"), cfg.PollInterval, cfg.Location)
	notifScheduler.Start()

	go bot.Start()
	mainLogger.Info("Bot and scheduler are running")

	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	notifScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
	return nil
}
