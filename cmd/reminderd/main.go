package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"easymed/internal/adapters/storage/file"
	"easymed/internal/adapters/telephony/testmode"
	"easymed/internal/adapters/telephony/twilio"
	"easymed/internal/domain/reminders"
	"easymed/internal/platform/config"
	"easymed/internal/platform/logger"
	"easymed/internal/ports/telephony"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// reminderd es el daemon de recordatorios: una pasada de escaneo por minuto,
// para siempre, hasta SIGINT/SIGTERM.
func main() {
	// Credenciales desde .env si existe (igual que el resto del entorno).
	_ = godotenv.Load()

	cfg := config.FromEnv()
	lg := logger.NewFromEnv()

	repo := file.NewScheduleRepo(cfg.StorePath)

	var dialer telephony.Dialer
	if cfg.TestMode {
		dialer = testmode.NewDialer(lg)
	} else {
		d, err := twilio.NewDialer(twilio.Config{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioFromNumber,
		})
		if err != nil {
			lg.Error("failed to configure telephony provider", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		dialer = d
	}

	svc := reminders.NewService(repo, dialer, lg)

	c := cron.New()
	if _, err := c.AddFunc("* * * * *", func() {
		// Un load fallido aborta solo esta iteración; el cron sigue.
		if err := svc.Scan(context.Background()); err != nil {
			lg.Warn("scan aborted", map[string]any{"error": err.Error()})
		}
	}); err != nil {
		lg.Error("failed to schedule scan", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	c.Start()

	lg.Info("reminder daemon started", map[string]any{
		"store":     cfg.StorePath,
		"test_mode": cfg.TestMode,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down", nil)
	// Espera a que termine una pasada en curso antes de salir.
	<-c.Stop().Done()
}
