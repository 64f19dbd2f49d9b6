// Package stockwatch consumes placement events and alerts when a
// product's remaining stock drops below the configured threshold.
package stockwatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/dimaswib/go-shop-backend/internal/catalog"
	kafkax "github.com/dimaswib/go-shop-backend/internal/kafka"
	"github.com/dimaswib/go-shop-backend/internal/metrics"
	"github.com/dimaswib/go-shop-backend/internal/orders"
	"github.com/dimaswib/go-shop-backend/internal/redisx"
)

// StockReader reads remaining stock for a set of products.
type StockReader interface {
	StockByIDs(ctx context.Context, ids []string) ([]catalog.StockLevel, error)
}

type Service struct {
	Stock     StockReader
	Redis     *redis.Client
	Threshold int
	Log       *zap.Logger
}

// HandleOrderPlaced is wired as the consumer handler for order.placed.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	}

	// dedup by event id; redelivery must not re-alert
	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, "stockwatch", env.EventID)
		if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(p.Lines))
	for _, l := range p.Lines {
		ids = append(ids, l.ProductID)
	}
	levels, err := s.Stock.StockByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, lv := range levels {
		if lv.Stock >= s.Threshold {
			metrics.LowStockGauge.DeleteLabelValues(lv.ProductID)
			continue
		}
		metrics.LowStockGauge.WithLabelValues(lv.ProductID).Set(float64(lv.Stock))
		s.Log.Warn("low stock",
			zap.String("product_id", lv.ProductID),
			zap.String("name", lv.Name),
			zap.Int("stock", lv.Stock),
			zap.String("order_id", p.OrderID))
	}
	return nil
}
