package main

import (
	"context"
	"encoding/json"
	"flight-status-bot/bot"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
)

const configPath = "./config.json"

func main() {
	c, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("unable to load config: %v", err.Error())
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	confirm := make(chan struct{})
	go func() {
		log.Fatal(bot.Start(ctx, c, confirm))
	}()
	s := make(chan os.Signal, 1)
	signal.Notify(s, os.Interrupt, syscall.SIGTERM)
	<-s
	cancel()
	<-confirm
}

func loadConfig(path string) (bot.Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return bot.Config{}, errors.Wrapf(err, "unable to read %v", path)
	}
	var c bot.Config
	if err := json.Unmarshal(file, &c); err != nil {
		return bot.Config{}, errors.Wrapf(err, "unable to parse %v", path)
	}
	return c, nil
}
