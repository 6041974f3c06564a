package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bryanlloydblanco30-blip/Webclicktoeat/internal/console"
)

// Runs a partner's order console against a live server: fetches the
// order feed (waiting out a backend that is still starting up), then
// logs every refresh.
func main() {
	baseURL := flag.String("url", "http://localhost:8000", "Base URL of the API server")
	partner := flag.String("partner", "", "Food partner whose orders to watch")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *partner == "" {
		slog.Error("A -partner is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	client := console.NewClient(*baseURL, *partner)
	c := console.New(client)
	poller := console.NewPoller(c)

	slog.Info("Connecting to order feed", "url", *baseURL, "partner", *partner)
	if err := poller.Start(ctx); err != nil {
		slog.Error("Could not fetch order feed", "error", err)
		os.Exit(1)
	}
	defer poller.Stop()

	logFeed(c)

	updates, cancelSub := c.Subscribe()
	go func() {
		// Unblocks the range below on shutdown.
		<-ctx.Done()
		cancelSub()
	}()
	for range updates {
		logFeed(c)
	}
	slog.Info("Console stopped")
}

func logFeed(c *console.Console) {
	orders := c.Orders()
	slog.Info("Order feed", "orders", len(orders))
	for _, o := range orders {
		slog.Info("Order",
			"id", o.ID,
			"customer", o.CustomerName,
			"status", o.Status,
			"total", o.Total,
			"pickup", o.PickupTime,
		)
	}
}
