package service

import (
	"math"

	"github.com/shiva/tripwise/internal/model"
)

// ─── Rate Tables ────────────────────────────────────────────

// Rates holds the static per-mode constants every metric is derived from.
type Rates struct {
	SpeedKmh  float64 `json:"speed_kmh"`
	FarePerKm float64 `json:"fare_per_km"`
	CO2PerKm  float64 `json:"co2_per_km"`
	Comfort   int     `json:"comfort"`
}

// DefaultRates apply to any mode missing from the table.
var DefaultRates = Rates{SpeedKmh: 50, FarePerKm: 2, CO2PerKm: 0.02, Comfort: 3}

var modeRates = map[model.Mode]Rates{
	model.ModeBus:         {SpeedKmh: 35, FarePerKm: 0.6, CO2PerKm: 0.012, Comfort: 2},
	model.ModeAuto:        {SpeedKmh: 28, FarePerKm: 2, CO2PerKm: 0.025, Comfort: 2},
	model.ModeBike:        {SpeedKmh: 45, FarePerKm: 1.5, CO2PerKm: 0.02, Comfort: 2},
	model.ModeTrain:       {SpeedKmh: 55, FarePerKm: 1.2, CO2PerKm: 0.008, Comfort: 4},
	model.ModeCar:         {SpeedKmh: 60, FarePerKm: 6.5, CO2PerKm: 0.045, Comfort: 4},
	model.ModeLuxuryTrain: {SpeedKmh: 110, FarePerKm: 10, CO2PerKm: 0.007, Comfort: 5},
	model.ModeFlight:      {SpeedKmh: 750, FarePerKm: 20, CO2PerKm: 0.35, Comfort: 4},
}

// RatesFor returns the rate record for a mode, or DefaultRates.
func RatesFor(mode model.Mode) Rates {
	if r, ok := modeRates[mode]; ok {
		return r
	}
	return DefaultRates
}

// ─── Metrics ────────────────────────────────────────────────

// Metrics are the values derived for one mode over one distance.
type Metrics struct {
	DurationMinutes int
	Fare            model.Money
	CO2Kg           float64
	Comfort         int
}

// ComputeMetrics derives duration, fare, CO2 and comfort for a mode.
//
//	duration = round(distance / speed × 60)   minutes
//	fare     = round(distance × farePerKm)    INR
//	co2      = distance × co2PerKm            kg, one decimal
//
// Comfort is a table constant. 650 km by train gives 709 min, ₹780, 5.2 kg.
func ComputeMetrics(mode model.Mode, distanceKm float64) Metrics {
	r := RatesFor(mode)
	return Metrics{
		DurationMinutes: int(math.Round(distanceKm / r.SpeedKmh * 60)),
		Fare:            model.Rupees(int64(math.Round(distanceKm * r.FarePerKm))),
		CO2Kg:           math.Round(distanceKm*r.CO2PerKm*10) / 10,
		Comfort:         r.Comfort,
	}
}
