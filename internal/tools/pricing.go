package tools

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// Pricing model constants. Simple area-based arithmetic mirroring how the
// sales team quotes: a base rate plus a per-square-meter component, with a
// seasonal spread around it.
const (
	baseNightlyEUR   = 35.0
	perSqmNightlyEUR = 1.1
	seasonalSpread   = 0.25

	defaultAreaSqm = 50.0
	minAreaSqm     = 10.0
	maxAreaSqm     = 500.0

	defaultOccupancyPct = 65.0
	managementFeePct    = 20.0
)

// estimatePricing suggests a nightly rate for a unit of the given area.
// No database access; pure arithmetic over clamped input.
func (r *Registry) estimatePricing(_ context.Context, args gjson.Result, lang Language) (string, error) {
	area := clampFloat(args.Get("area_sqm").Float(), defaultAreaSqm, minAreaSqm, maxAreaSqm)

	nightly := baseNightlyEUR + perSqmNightlyEUR*area
	low := nightly * (1 - seasonalSpread)
	high := nightly * (1 + seasonalSpread)

	if lang == LangEN {
		return fmt.Sprintf(
			"For a %.0f sqm unit the recommended nightly rate is about %.0f EUR (low season ~%.0f EUR, high season ~%.0f EUR).",
			area, nightly, low, high), nil
	}
	return fmt.Sprintf(
		"Pentru o unitate de %.0f mp, tariful recomandat pe noapte este de aproximativ %.0f EUR (extrasezon ~%.0f EUR, sezon ~%.0f EUR).",
		area, nightly, low, high), nil
}

// estimateProfit projects monthly owner profit for a unit: nightly rate times
// occupied nights, minus the management fee.
func (r *Registry) estimateProfit(_ context.Context, args gjson.Result, lang Language) (string, error) {
	area := clampFloat(args.Get("area_sqm").Float(), defaultAreaSqm, minAreaSqm, maxAreaSqm)
	occupancy := clampFloat(args.Get("occupancy_pct").Float(), defaultOccupancyPct, 5, 100)

	nightly := args.Get("nightly_rate_eur").Float()
	nightly = clampFloat(nightly, baseNightlyEUR+perSqmNightlyEUR*area, 10, 2000)

	occupiedNights := 30.0 * occupancy / 100.0
	gross := nightly * occupiedNights
	fee := gross * managementFeePct / 100.0
	net := gross - fee

	if lang == LangEN {
		return fmt.Sprintf(
			"Estimate for a %.0f sqm unit at %.0f EUR/night and %.0f%% occupancy: gross %.0f EUR/month, management fee %.0f EUR, net owner profit about %.0f EUR/month.",
			area, nightly, occupancy, gross, fee, net), nil
	}
	return fmt.Sprintf(
		"Estimare pentru o unitate de %.0f mp la %.0f EUR/noapte si %.0f%% grad de ocupare: venit brut %.0f EUR/luna, comision administrare %.0f EUR, profit net aproximativ %.0f EUR/luna.",
		area, nightly, occupancy, gross, fee, net), nil
}
