package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderdesk.org/internal/auth"
	"orderdesk.org/internal/config"
	"orderdesk.org/internal/httpapi"
	"orderdesk.org/internal/identity"
	"orderdesk.org/internal/mail"
	"orderdesk.org/internal/notify"
	"orderdesk.org/internal/obs"
	"orderdesk.org/internal/orders"
	"orderdesk.org/internal/store/pg"
)

var version = "0.1.0"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("ORDERDESK_COMMIT"))

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := pg.Open(cfg.PGDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("token verifier: %v", err)
	}

	authz := orders.NewStoreAuthorizer(store)

	api := httpapi.New(httpapi.ReadyProbe{DB: store.DB()}, version, httpapi.Deps{
		Verifier: verifier,
		Identity: identity.NewClient(cfg.IdentityURL, cfg.IdentityKey),
		Exporter: orders.NewExporter(authz, store),
		Notifier: notify.NewService(authz, mail.NewClient(cfg.MailURL, cfg.MailAPIKey), cfg.MailFrom),
		Origins:  cfg,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting orderdesk-api %s on %s", version, srv.Addr)

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
	_ = store.Close()
	log.Println("Stopped")
}
