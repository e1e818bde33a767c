// Package estimation holds the only arithmetic the workflow needs: the
// cost breakdown of a consulting engineer's estimation.
package estimation

import (
	"math"

	"kdsgroup.co.in/hms/models"
)

const (
	// DefaultGSTRate applies when the backend does not supply one.
	DefaultGSTRate = 0.18
	// ConsultingFeeRate is charged once for the estimation and once for the
	// material book, each on the GST-inclusive total.
	ConsultingFeeRate = 0.01
)

// Calculate sums the selected items and derives GST and consulting fees.
// A gstRate <= 0 falls back to DefaultGSTRate.
func Calculate(items []models.EstimationItem, gstRate float64) models.EstimationBreakdown {
	if gstRate <= 0 {
		gstRate = DefaultGSTRate
	}
	var b models.EstimationBreakdown
	for _, it := range items {
		if !it.Selected {
			continue
		}
		b.Total += it.Amount()
		b.SelectedItemCnt++
	}
	b.GSTRate = gstRate
	b.GST = b.Total * gstRate
	b.TotalWithGST = b.Total + b.GST
	b.EstimationFee = b.TotalWithGST * ConsultingFeeRate
	b.MBFee = b.TotalWithGST * ConsultingFeeRate
	b.GrandTotal = b.TotalWithGST + b.EstimationFee + b.MBFee
	return b
}

// Rounded returns the breakdown with every amount rounded to paise, the
// form in which it is displayed and submitted.
func Rounded(b models.EstimationBreakdown) models.EstimationBreakdown {
	b.Total = round2(b.Total)
	b.GST = round2(b.GST)
	b.TotalWithGST = round2(b.TotalWithGST)
	b.EstimationFee = round2(b.EstimationFee)
	b.MBFee = round2(b.MBFee)
	b.GrandTotal = round2(b.GrandTotal)
	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
