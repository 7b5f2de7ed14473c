package services

import (
	"time"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
)

// LowStockAt is the quantity below which a record counts as low stock.
const LowStockAt = 5

const (
	StockIn      = "In Stock"
	StockLow     = "Low Stock"
	StockOut     = "Out of Stock"
	StockExpired = "Expired"
)

// StockStatus converts a quantity and optional expiry into a status.
// Expired wins over any quantity.
func StockStatus(qty float64, expiry time.Time, now time.Time) string {
	if !expiry.IsZero() && expiry.Before(now) {
		return StockExpired
	}
	switch {
	case qty >= LowStockAt:
		return StockIn
	case qty > 0:
		return StockLow
	}
	return StockOut
}

// DeriveStock fills the schema's stock status field when the draft leaves it
// blank. Drafts without a usable quantity are left alone.
func DeriveStock(sc domain.Schema, d domain.Record, now time.Time) {
	if sc.StockStatus == "" || !blank(d[sc.StockStatus]) {
		return
	}
	var qty float64
	switch n := d["quantity"].(type) {
	case int64:
		qty = float64(n)
	case float64:
		qty = n
	default:
		return
	}
	var expiry time.Time
	if s := d.Text("expiryDate"); s != "" {
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, s); err == nil {
				expiry = t
				break
			}
		}
	}
	d[sc.StockStatus] = StockStatus(qty, expiry, now)
}
