package domain

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/milkledger/internal/clock"
	deliverydomain "github.com/smallbiznis/milkledger/internal/delivery/domain"
)

// InRange reports whether the stored delivery date t falls on a calendar day
// between from and to inclusive. from and to are read in loc.
func InRange(t, from, to time.Time, loc *time.Location) bool {
	day := clock.CivilDate(t, time.UTC)
	start := clock.CivilDate(from, loc)
	end := clock.CivilDate(to, loc)
	return !day.Before(start) && !day.After(end)
}

// Filter keeps records inside the range and, when customerID is set, those
// belonging to that customer.
func Filter(records []deliverydomain.Record, from, to time.Time, loc *time.Location, customerID *snowflake.ID) []deliverydomain.Record {
	out := make([]deliverydomain.Record, 0, len(records))
	for _, r := range records {
		if !InRange(r.Date, from, to, loc) {
			continue
		}
		if customerID != nil && r.CustomerID != *customerID {
			continue
		}
		out = append(out, r)
	}
	return out
}

func TotalQuantity(records []deliverydomain.Record) float64 {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(decimal.NewFromFloat(r.Quantity))
	}
	return total.InexactFloat64()
}

// TotalAmount bills quantity at rate per liter, rounded to two decimals.
func TotalAmount(quantity, rate float64) decimal.Decimal {
	if rate == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(rate)).Round(2)
}

// DailyBreakdown groups records by delivery date, oldest first. A record
// counts as a delivery only when its quantity is positive.
func DailyBreakdown(records []deliverydomain.Record) []DailyTotal {
	byDay := make(map[time.Time]*DailyTotal)
	for _, r := range records {
		day := clock.CivilDate(r.Date, time.UTC)
		entry, ok := byDay[day]
		if !ok {
			entry = &DailyTotal{Date: day}
			byDay[day] = entry
		}
		entry.Quantity = decimal.NewFromFloat(entry.Quantity).Add(decimal.NewFromFloat(r.Quantity)).InexactFloat64()
		entry.Records++
		if r.Quantity > 0 {
			entry.Deliveries++
		}
	}

	out := make([]DailyTotal, 0, len(byDay))
	for _, entry := range byDay {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Summarize reduces records over period into a report. The average divides
// by the number of days in the period, never less than one.
func Summarize(records []deliverydomain.Record, period Period, rate float64) Report {
	total := TotalQuantity(records)
	days := clock.DaysInclusive(period.From, period.To, time.UTC)
	if days < 1 {
		days = 1
	}

	deliveries := 0
	for _, r := range records {
		if r.Quantity > 0 {
			deliveries++
		}
	}

	if records == nil {
		records = []deliverydomain.Record{}
	}

	return Report{
		Period:        period,
		Rate:          rate,
		TotalQuantity: total,
		TotalAmount:   TotalAmount(total, rate).InexactFloat64(),
		Deliveries:    deliveries,
		AverageDaily:  decimal.NewFromFloat(total).Div(decimal.NewFromInt(int64(days))).Round(2).InexactFloat64(),
		Daily:         DailyBreakdown(records),
		Records:       records,
	}
}
