package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tavolagames/tavola/bot"
	"github.com/tavolagames/tavola/server"
)

func main() {
	godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := bot.ConfigFromEnv()
	if err != nil {
		log.WithError(err).Fatal("could not read configuration")
	}

	srv := server.New(cfg.BaseURL, log)
	registry := bot.New(cfg, srv, log)
	go registry.Run(context.Background())

	log.WithField("addr", cfg.ListenAddr).Info("starting card games server")
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, srv.Handler()))
}
