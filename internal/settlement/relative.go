package settlement

import (
	"time"

	"github.com/minjaekwon/assetboard/internal/models"
)

// BuildComparisonSeries produces the relative-return series for the
// comparison chart: one point per non-weekend snapshot date carrying each
// benchmark index and the portfolio's domestic/overseas TWR segments, all
// rebased to 0% at the first visible date.
//
// Benchmark closes are looked up at-or-before each date; the overseas
// segment is aligned through the Friday/Saturday substitution rule.
func BuildComparisonSeries(history []*models.HistoryEntry, benchmarks []*models.IndexSeries, fallbackRate float64) []models.ComparisonPoint {
	entries := sortedByDate(history)

	var dates []string
	for _, e := range entries {
		wd := e.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		dates = append(dates, e.Date)
	}
	if len(dates) == 0 {
		return nil
	}

	domestic := TWRMultipliers(entries, models.MarketDomestic, fallbackRate)
	overseas := TWRMultipliers(entries, models.MarketOverseas, fallbackRate)

	base := dates[0]
	baseDomestic := multiplierAt(base, domestic)
	baseOverseas := SyncOverseasFriday(base, overseas)

	baseCloses := make(map[string]float64, len(benchmarks))
	for _, s := range benchmarks {
		if close, ok := s.CloseAsOf(base); ok && close > 0 {
			baseCloses[benchmarkKey(s)] = close
		}
	}

	points := make([]models.ComparisonPoint, 0, len(dates))
	for _, date := range dates {
		point := models.ComparisonPoint{
			Date:       date,
			Indexes:    make(map[string]float64, len(benchmarks)),
			MyDomestic: percentFrom(multiplierAt(date, domestic), baseDomestic),
			MyOverseas: percentFrom(SyncOverseasFriday(date, overseas), baseOverseas),
		}
		for _, s := range benchmarks {
			key := benchmarkKey(s)
			baseClose, ok := baseCloses[key]
			if !ok {
				point.Indexes[key] = 0
				continue
			}
			close, found := s.CloseAsOf(date)
			if !found {
				point.Indexes[key] = 0
				continue
			}
			point.Indexes[key] = percentFrom(close, baseClose)
		}
		points = append(points, point)
	}

	return points
}

func benchmarkKey(s *models.IndexSeries) string {
	if s.Name != "" {
		return s.Name
	}
	return s.Symbol
}

func multiplierAt(date string, multipliers map[string]float64) float64 {
	if v, ok := multipliers[date]; ok {
		return v
	}
	return 1.0
}

// percentFrom converts a level against its base into a percent return,
// guarded against a zero base.
func percentFrom(value, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return (value/base - 1) * 100
}
