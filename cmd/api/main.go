package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"alive.africa/internal/audit"
	"alive.africa/internal/auth"
	"alive.africa/internal/config"
	"alive.africa/internal/httpapi"
	"alive.africa/internal/notify"
	"alive.africa/internal/obs"
	"alive.africa/internal/projects"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("missing database DSN: set ALIVE_PG_DSN")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("missing token secret: set ALIVE_JWT_SECRET")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	var mailer notify.EmailSender
	if cfg.SMTPHost != "" {
		m, err := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		if err != nil {
			log.Fatalf("smtp: %v", err)
		}
		mailer = m
	}
	var sms notify.SMSSender
	if cfg.SMSAPIURL != "" {
		sms = notify.NewSMSClient(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSPartnerID, cfg.SMSShortcode)
	}
	gateway := notify.NewGateway(mailer, sms, notify.NewPGStore(db))

	logs := audit.NewService(audit.NewPGStore(db))

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, auth.WithTokenTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}
	authSvc := auth.NewService(auth.NewPGUserStore(db), tokens, gateway, logs)
	projectSvc := projects.NewService(projects.NewPGStore(db))

	api := httpapi.New(httpapi.Options{
		Auth:          authSvc,
		Tokens:        tokens,
		Projects:      projectSvc,
		Notifications: gateway,
		Audit:         logs,
		Ready:         httpapi.ReadyProbe{DB: db},
		Version:       version,
		RateBurst:     cfg.RateBurst,
		RatePerSec:    cfg.RatePerSec,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting alive-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = db.Close()
	log.Println("Stopped")
}
