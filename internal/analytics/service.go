package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderlyy/orderlyy-backend/internal/orders"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
)

// DefaultPeriod is used when the caller omits or mangles the period.
const DefaultPeriod = "30d"

var periodDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

type orderReader interface {
	ListByStoreBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]orders.JoinedRow, error)
}

type paymentReader interface {
	ListConfirmedBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]models.Payment, error)
}

// Totals aggregates a single window.
type Totals struct {
	Orders  int             `json:"orders"`
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DayPoint is one day of the series, date in YYYY-MM-DD (UTC).
type DayPoint struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Summary is the dashboard analytics payload. Change percentages compare
// against the window immediately before the selected one and are nil when
// that window had no activity to compare against.
type Summary struct {
	Period        string     `json:"period"`
	Totals        Totals     `json:"totals"`
	OrdersChange  *float64   `json:"orders_change_pct"`
	RevenueChange *float64   `json:"revenue_change_pct"`
	Daily         []DayPoint `json:"daily"`
}

// Service computes store analytics from order and payment history.
// Revenue counts confirmed payments only; order totals use the live
// product price at read time.
type Service struct {
	orders   orderReader
	payments paymentReader
	now      func() time.Time
}

// NewService validates dependencies and returns an analytics service.
func NewService(orderRepo orderReader, paymentRepo paymentReader) (*Service, error) {
	if orderRepo == nil {
		return nil, fmt.Errorf("order reader required")
	}
	if paymentRepo == nil {
		return nil, fmt.Errorf("payment reader required")
	}
	return &Service{orders: orderRepo, payments: paymentRepo, now: time.Now}, nil
}

// Summarize builds the analytics summary for one store. Unknown periods
// fall back to DefaultPeriod rather than erroring.
func (s *Service) Summarize(ctx context.Context, storeID uuid.UUID, period string) (*Summary, error) {
	period, days := clampPeriod(period)
	now := s.now().UTC()
	from := now.AddDate(0, 0, -days)
	prevFrom := now.AddDate(0, 0, -2*days)

	currentOrders, err := s.orders.ListByStoreBetween(ctx, storeID, from, now)
	if err != nil {
		return nil, err
	}
	previousOrders, err := s.orders.ListByStoreBetween(ctx, storeID, prevFrom, from)
	if err != nil {
		return nil, err
	}
	currentPayments, err := s.payments.ListConfirmedBetween(ctx, storeID, from, now)
	if err != nil {
		return nil, err
	}
	previousPayments, err := s.payments.ListConfirmedBetween(ctx, storeID, prevFrom, from)
	if err != nil {
		return nil, err
	}

	current := totalsOf(currentOrders, currentPayments)
	previous := totalsOf(previousOrders, previousPayments)

	summary := &Summary{
		Period:        period,
		Totals:        current,
		OrdersChange:  pctChange(float64(previous.Orders), float64(current.Orders)),
		RevenueChange: pctChange(previous.Revenue.InexactFloat64(), current.Revenue.InexactFloat64()),
		Daily:         dailySeries(from, now, currentOrders, currentPayments),
	}
	return summary, nil
}

func clampPeriod(period string) (string, int) {
	period = strings.ToLower(strings.TrimSpace(period))
	if days, ok := periodDays[period]; ok {
		return period, days
	}
	return DefaultPeriod, periodDays[DefaultPeriod]
}

func totalsOf(rows []orders.JoinedRow, paid []models.Payment) Totals {
	t := Totals{Revenue: decimal.Zero}
	for _, row := range rows {
		t.Orders++
		t.Units += row.Qty
	}
	for _, payment := range paid {
		t.Revenue = t.Revenue.Add(payment.Amount)
	}
	return t
}

// pctChange returns the percent delta from prev to cur, nil when prev is
// zero.
func pctChange(prev, cur float64) *float64 {
	if prev == 0 {
		return nil
	}
	change := (cur - prev) / prev * 100
	return &change
}

func dailySeries(from, to time.Time, rows []orders.JoinedRow, paid []models.Payment) []DayPoint {
	const layout = "2006-01-02"

	ordersPerDay := map[string]int{}
	for _, row := range rows {
		ordersPerDay[row.CreatedAt.UTC().Format(layout)]++
	}
	revenuePerDay := map[string]decimal.Decimal{}
	for _, payment := range paid {
		when := payment.CreatedAt
		if payment.ResolvedAt != nil {
			when = *payment.ResolvedAt
		}
		day := when.UTC().Format(layout)
		revenuePerDay[day] = revenuePerDay[day].Add(payment.Amount)
	}

	var series []DayPoint
	for day := from.Truncate(24 * time.Hour); !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(layout)
		revenue, ok := revenuePerDay[key]
		if !ok {
			revenue = decimal.Zero
		}
		series = append(series, DayPoint{Date: key, Orders: ordersPerDay[key], Revenue: revenue})
	}
	return series
}
