package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tableside/internal/common/logger"
	"tableside/internal/config"
	"tableside/internal/domain"
	"tableside/internal/kitchen"
	"tableside/internal/notify"
	"tableside/internal/order"
	"tableside/internal/placement"
	"tableside/internal/validation"
)

func main() {
	mode := flag.String("mode", "", "order-service | kitchen-service | notification-subscriber | submit-order")
	cfgPath := flag.String("config", "", "path to YAML config (default: auto-discover)")
	port := flag.Int("port", 0, "http port override for services that expose HTTP")
	payload := flag.String("payload", "", "submit-order: path to a JSON order payload")
	orderURL := flag.String("order-url", "http://localhost:3000", "submit-order: base URL of the order service")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	lg := logger.New("bootstrap")
	defer lg.Sync()

	// submit-order talks to the order service only, no config needed
	if *mode == "submit-order" {
		if err := submitOrder(ctx, *payload, *orderURL); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		return
	}

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.Find(); err != nil {
			fmt.Fprintln(os.Stderr, "no config file found; pass --config")
			os.Exit(2)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(1)
	}

	switch *mode {
	case "order-service":
		p := *port
		if p == 0 {
			p = cfg.HTTP.OrderPort
		}
		lg.Info("service_started", map[string]any{"service": "order-service", "port": p})
		err = order.Run(ctx, cfg, p)
	case "kitchen-service":
		p := *port
		if p == 0 {
			p = cfg.HTTP.KitchenPort
		}
		lg.Info("service_started", map[string]any{"service": "kitchen-service", "port": p})
		err = kitchen.Run(ctx, cfg, p)
	case "notification-subscriber":
		lg.Info("service_started", map[string]any{"service": "notification-subscriber"})
		err = notify.Run(ctx, cfg)
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: order-service | kitchen-service | notification-subscriber | submit-order")
		os.Exit(2)
	}
	if err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
}

// submitOrder reads an order payload from disk and places it through
// the retrying submitter.
func submitOrder(ctx context.Context, payloadPath, baseURL string) error {
	if payloadPath == "" {
		return fmt.Errorf("--payload is required for submit-order")
	}
	raw, err := os.ReadFile(payloadPath)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	var req domain.CreateOrderRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}

	lg := logger.New("submit-order")
	defer lg.Sync()
	sub := placement.NewSubmitter(placement.NewHTTPGateway(baseURL), validation.New(), lg)

	o, err := sub.Place(ctx, req)
	if err != nil {
		return err
	}
	out, _ := json.MarshalIndent(o, "", "  ")
	fmt.Println(string(out))
	return nil
}
