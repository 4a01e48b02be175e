package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"iqoption-mock/events"
	"iqoption-mock/logger"
	"iqoption-mock/mock"
	"iqoption-mock/webhook"
)

type Config struct {
	ListenAddr  string   `envconfig:"LISTEN_ADDR" default:"localhost:8888"`
	AccountType string   `envconfig:"ACCOUNT_TYPE" default:"DEMO"`
	Symbols     []string `envconfig:"SYMBOLS"`
	FailChance  float64  `envconfig:"FAIL_CHANCE"`
	MaxRetries  int      `envconfig:"MAX_RETRIES" default:"3"`
	Seed        int64    `envconfig:"SEED"`

	LoggerLevel int    `envconfig:"LOGGER_LEVEL"`
	LogDir      string `envconfig:"LOG_DIR" default:"logs"`

	KafkaURL         string `envconfig:"KAFKA_URL"`
	OrderEventsTopic string `envconfig:"ORDER_EVENTS_TOPIC" default:"iqoption-orders"`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal("load .env: ", err)
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("read config from environment: ", err)
	}

	logs, err := logger.NewLogger(config.LoggerLevel, config.LogDir)
	if err != nil {
		log.Fatal(err)
	}

	publisher := events.NewNopPublisher()
	if config.KafkaURL != "" {
		publisher = events.NewKafkaPublisher([]string{config.KafkaURL}, config.OrderEventsTopic)
	}
	defer publisher.Close()

	client := mock.NewClient(mock.Config{
		AccountType: config.AccountType,
		Symbols:     config.Symbols,
		FailChance:  config.FailChance,
		MaxRetries:  config.MaxRetries,
		Seed:        config.Seed,
		Publisher:   publisher,
		Logger:      logs,
	})

	listener, err := net.Listen("tcp", config.ListenAddr)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webhookServer := webhook.NewWebhook(listener, client, logs)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := webhookServer.Shutdown(shutdownCtx); err != nil {
			logs.Error("shutdown", "server", webhookServer.Name(), "err", err)
		}
	}()

	logs.Info("serving", "server", webhookServer.Name(), "addr", listener.Addr().String())
	if err := webhookServer.Serve(ctx); err != nil {
		logs.Error("serve", "server", webhookServer.Name(), "err", err)
	}
}
