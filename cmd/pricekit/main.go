package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/pricekit/internal/config"
	"github.com/smallbiznis/pricekit/internal/pricing"
	"github.com/smallbiznis/pricekit/internal/pricing/domain"
	"github.com/smallbiznis/pricekit/pkg/log"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),

		pricing.Module,

		fx.Invoke(run),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// run reads price items as JSON, computes the aggregate, writes the result
// and stops the app.
func run(lc fx.Lifecycle, sd fx.Shutdowner, cfg config.Config, logger *zap.Logger, node *snowflake.Node, svc domain.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := compute(cfg, logger, node, svc); err != nil {
					logger.Error("computation failed", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
					return
				}
				_ = sd.Shutdown()
			}()
			return nil
		},
	})
}

func compute(cfg config.Config, logger *zap.Logger, node *snowflake.Node, svc domain.Service) error {
	items, err := readItems(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	for _, item := range items {
		if item != nil && item.ID == "" {
			item.ID = node.Generate().String()
		}
	}

	details, err := svc.ComputeAggregatedAndPriceTotals(items)
	if err != nil {
		return fmt.Errorf("compute totals: %w", err)
	}
	logger.Info("computed pricing details",
		zap.Int("items", len(details.Items)),
		zap.Int64("amount_total", details.AmountTotal),
		zap.String("currency", details.Currency),
	)

	if err := writeDetails(cfg.OutputPath, details); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func readItems(path string) ([]*domain.PriceItem, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var items []*domain.PriceItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

func writeDetails(path string, details *domain.PricingDetails) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(details)
}
