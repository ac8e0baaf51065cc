package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dannydanzka/reservapp-web-sub003/models"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

// StatsFilter constrains the aggregate queries after role scoping.
type StatsFilter struct {
	VenueIDs []uint
	From     *time.Time
	To       *time.Time
}

// StatusTotal is one row of the per-status aggregation.
type StatusTotal struct {
	Status string
	Count  int64
	Total  decimal.Decimal
}

type StatsStore interface {
	VenueOwnershipStore
	// PaymentStatusTotals returns count and amount sum grouped by status.
	PaymentStatusTotals(ctx context.Context, filter StatsFilter) ([]StatusTotal, error)
	// CompletedRevenue sums completed payment amounts in the half-open
	// window [from, to).
	CompletedRevenue(ctx context.Context, venueIDs []uint, from, to time.Time) (decimal.Decimal, error)
}

type StatsInput struct {
	RequesterRole string
	RequesterID   uint
	From          *time.Time
	To            *time.Time
}

type PaymentStats struct {
	TotalCount         int64           `json:"totalCount"`
	CompletedCount     int64           `json:"completedCount"`
	PendingCount       int64           `json:"pendingCount"`
	FailedCount        int64           `json:"failedCount"`
	RefundedCount      int64           `json:"refundedCount"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	SuccessRate        float64         `json:"successRate"`
	FailureRate        float64         `json:"failureRate"`
	RefundRate         float64         `json:"refundRate"`
	AverageTransaction decimal.Decimal `json:"averageTransaction"`
	TotalPlatformFees  decimal.Decimal `json:"totalPlatformFees"`
	TotalNetRevenue    decimal.Decimal `json:"totalNetRevenue"`
	MonthlyGrowth      float64         `json:"monthlyGrowth"`
}

// StatsService computes role-scoped aggregate payment metrics. Results are
// cached in Redis for a short window; the cache is best-effort and the
// aggregator works without it.
type StatsService struct {
	Store StatsStore
	Cache *redis.Client
}

const statsCacheTTL = 60 * time.Second

func NewStatsService(store StatsStore, cache *redis.Client) *StatsService {
	return &StatsService{Store: store, Cache: cache}
}

func (s *StatsService) Aggregate(ctx context.Context, input StatsInput) (*PaymentStats, error) {
	venueIDs, empty, err := scopedVenueIDs(ctx, s.Store, input.RequesterRole, input.RequesterID, 0)
	if err != nil {
		return nil, err
	}
	if empty {
		// Zero owned venues: all-zero stats, no aggregate query.
		return zeroStats(), nil
	}

	cacheKey := statsCacheKey(input)
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var stats PaymentStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	totals, err := s.Store.PaymentStatusTotals(ctx, StatsFilter{VenueIDs: venueIDs, From: input.From, To: input.To})
	if err != nil {
		return nil, err
	}

	stats := buildStats(totals)

	if input.From != nil && input.To != nil {
		growth, err := s.monthlyGrowth(ctx, venueIDs, *input.From, *input.To)
		if err != nil {
			log.Printf("stats: growth computation failed: %v", err)
		} else {
			stats.MonthlyGrowth = growth
		}
	}

	if s.Cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.Cache.Set(ctx, cacheKey, data, statsCacheTTL)
		}
	}
	return stats, nil
}

func buildStats(totals []StatusTotal) *PaymentStats {
	stats := zeroStats()
	var completedRevenue decimal.Decimal

	for _, row := range totals {
		stats.TotalCount += row.Count
		switch row.Status {
		case models.PaymentCompleted:
			stats.CompletedCount = row.Count
			completedRevenue = row.Total
		case models.PaymentPending:
			stats.PendingCount = row.Count
		case models.PaymentFailed:
			stats.FailedCount = row.Count
		case models.PaymentRefunded, models.PaymentPartiallyRefunded:
			stats.RefundedCount += row.Count
		}
	}
	stats.TotalRevenue = completedRevenue

	if stats.TotalCount > 0 {
		stats.SuccessRate = percent(stats.CompletedCount, stats.TotalCount)
		stats.FailureRate = percent(stats.FailedCount, stats.TotalCount)
		stats.RefundRate = percent(stats.RefundedCount, stats.TotalCount)
	}
	if stats.CompletedCount > 0 {
		stats.AverageTransaction = completedRevenue.
			Div(decimal.NewFromInt(stats.CompletedCount)).RoundBank(2)
	}

	split := SplitCommission(completedRevenue, PlatformCommissionRate)
	stats.TotalPlatformFees = split.PlatformFee
	stats.TotalNetRevenue = split.NetAmount
	return stats
}

// monthlyGrowth compares completed revenue in [from, to) against the
// equal-length immediately preceding window [from-length, from). The two
// windows are disjoint; the shared boundary belongs to the current one.
func (s *StatsService) monthlyGrowth(ctx context.Context, venueIDs []uint, from, to time.Time) (float64, error) {
	current, err := s.Store.CompletedRevenue(ctx, venueIDs, from, to)
	if err != nil {
		return 0, err
	}
	length := to.Sub(from)
	prior, err := s.Store.CompletedRevenue(ctx, venueIDs, from.Add(-length), from)
	if err != nil {
		return 0, err
	}
	if prior.IsZero() {
		return 0, nil
	}
	growth, _ := current.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100)).Float64()
	return growth, nil
}

func percent(part, total int64) float64 {
	return float64(part) / float64(total) * 100
}

func zeroStats() *PaymentStats {
	return &PaymentStats{
		TotalRevenue:       decimal.Zero,
		AverageTransaction: decimal.Zero,
		TotalPlatformFees:  decimal.Zero,
		TotalNetRevenue:    decimal.Zero,
	}
}

func statsCacheKey(input StatsInput) string {
	from, to := "", ""
	if input.From != nil {
		from = input.From.Format(time.RFC3339)
	}
	if input.To != nil {
		to = input.To.Format(time.RFC3339)
	}
	return fmt.Sprintf("stats:payments:%s:%d:%s:%s", input.RequesterRole, input.RequesterID, from, to)
}
