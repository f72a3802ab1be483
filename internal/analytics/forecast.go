package analytics

import (
	"fmt"
	"math"
)

// DefaultForecastHorizon is the number of future weeks projected when
// the caller does not choose one.
const DefaultForecastHorizon = 4

// ForecastPoint is one projected future week, labeled "+1".."+N".
type ForecastPoint struct {
	Label   string
	Revenue float64
}

// Forecast fits an ordinary least-squares line over an ascending
// weekly revenue series (x = week index) and projects horizonWeeks
// future points, each floored at 0. Fewer than two historical points
// yield no forecast.
func Forecast(series []WeekBucket, horizonWeeks int) []ForecastPoint {
	if horizonWeeks <= 0 {
		horizonWeeks = DefaultForecastHorizon
	}
	n := len(series)
	if n < 2 {
		return nil
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, bucket := range series {
		x := float64(i)
		sumX += x
		sumY += bucket.Revenue
		sumXY += x * bucket.Revenue
		sumXX += x * x
	}
	denom := float64(n)*sumXX - sumX*sumX
	// A zero-variance x axis cannot happen with distinct week indexes,
	// but the guard keeps the division defined.
	if denom == 0 {
		denom = 1
	}
	slope := (float64(n)*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / float64(n)

	out := make([]ForecastPoint, 0, horizonWeeks)
	for i := 1; i <= horizonWeeks; i++ {
		projected := intercept + slope*float64(n-1+i)
		if projected < 0 {
			projected = 0
		}
		out = append(out, ForecastPoint{
			Label:   fmt.Sprintf("+%d", i),
			Revenue: math.Round(projected*100) / 100,
		})
	}
	return out
}
