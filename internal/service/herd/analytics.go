package herd

import (
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/cattlehealth/internal/domain/models"
)

// QualityNotAvailable is the average quality label when there are no milkings.
const QualityNotAvailable = "N/A"

var qualityScores = map[models.MilkQuality]int{
	models.QualityExcellent: 4,
	models.QualityGood:      3,
	models.QualityFair:      2,
	models.QualityPoor:      1,
}

var (
	qualityOrder = []models.MilkQuality{models.QualityExcellent, models.QualityGood, models.QualityFair, models.QualityPoor}
	healthOrder  = []models.HealthStatus{models.HealthHealthy, models.HealthUnderObservation, models.HealthSick, models.HealthCritical}
)

// HerdStats summarises a herd's condition.
type HerdStats struct {
	Total     int `json:"total"`
	Healthy   int `json:"healthy"`
	NeedsCare int `json:"needsCare"`
}

// ComputeHerdStats counts healthy animals and the ones needing care
// (sick, under treatment or under observation).
func ComputeHerdStats(cattle []models.Cattle) HerdStats {
	stats := HerdStats{Total: len(cattle)}
	for _, c := range cattle {
		switch c.HealthStatus {
		case models.HealthHealthy:
			stats.Healthy++
		case models.HealthSick, models.HealthUnderTreatment, models.HealthUnderObservation:
			stats.NeedsCare++
		}
	}
	return stats
}

// DailyProduction is the milk total of one calendar day.
type DailyProduction struct {
	Date   string  `json:"date"`
	Liters float64 `json:"liters"`
}

// QualityCount is one bucket of the quality distribution.
type QualityCount struct {
	Quality models.MilkQuality `json:"quality"`
	Count   int                `json:"count"`
}

// StatusCount is one bucket of the health distribution.
type StatusCount struct {
	Status models.HealthStatus `json:"status"`
	Count  int                 `json:"count"`
}

// Producer is an animal's cumulated milk yield.
type Producer struct {
	CattleName string  `json:"cattleName"`
	Liters     float64 `json:"liters"`
}

// MilkAnalytics groups the figures shown on the analytics page.
type MilkAnalytics struct {
	TotalLiters      float64           `json:"totalLiters"`
	AverageLiters    float64           `json:"averageLiters"`
	TodayLiters      float64           `json:"todayLiters"`
	AverageQuality   string            `json:"averageQuality"`
	GoodOrBetterRate float64           `json:"goodOrBetterRate"`
	MorningLiters    float64           `json:"morningLiters"`
	EveningLiters    float64           `json:"eveningLiters"`
	DailyTrend       []DailyProduction `json:"dailyTrend"`
	Distribution     []QualityCount    `json:"distribution"`
	TopProducers     []Producer        `json:"topProducers"`
}

// ComputeMilkAnalytics builds every milk figure relative to now.
func ComputeMilkAnalytics(milk []models.MilkRecord, now time.Time) MilkAnalytics {
	out := MilkAnalytics{
		TodayLiters:    MilkTodayTotal(milk, now),
		AverageQuality: MilkAverageQuality(milk),
		DailyTrend:     MilkDailyTrend(milk, now, 7),
		Distribution:   MilkQualityDistribution(milk),
		TopProducers:   TopProducers(milk, 5),
	}

	goodOrBetter := 0
	for _, m := range milk {
		out.TotalLiters += m.Quantity
		switch m.Session {
		case models.SessionMorning:
			out.MorningLiters += m.Quantity
		case models.SessionEvening:
			out.EveningLiters += m.Quantity
		}
		if m.Quality == models.QualityExcellent || m.Quality == models.QualityGood {
			goodOrBetter++
		}
	}
	if len(milk) > 0 {
		out.AverageLiters = out.TotalLiters / float64(len(milk))
		out.GoodOrBetterRate = float64(goodOrBetter) / float64(len(milk))
	}
	return out
}

// MilkTodayTotal sums the milkings recorded on now's calendar day, in now's
// location. Unparseable timestamps are ignored.
func MilkTodayTotal(milk []models.MilkRecord, now time.Time) float64 {
	year, month, day := now.Date()
	total := 0.0
	for _, m := range milk {
		ts, ok := parseTimestamp(m.Timestamp)
		if !ok {
			continue
		}
		y, mo, d := ts.In(now.Location()).Date()
		if y == year && mo == month && d == day {
			total += m.Quantity
		}
	}
	return total
}

// MilkAverageQuality averages quality scores (Excellent=4 .. Poor=1) and maps
// the mean back to a label. Unknown qualities score 0.
func MilkAverageQuality(milk []models.MilkRecord) string {
	if len(milk) == 0 {
		return QualityNotAvailable
	}
	sum := 0
	for _, m := range milk {
		sum += qualityScores[m.Quality]
	}
	avg := float64(sum) / float64(len(milk))
	switch {
	case avg >= 3.5:
		return string(models.QualityExcellent)
	case avg >= 2.5:
		return string(models.QualityGood)
	case avg >= 1.5:
		return string(models.QualityFair)
	default:
		return string(models.QualityPoor)
	}
}

// MilkDailyTrend returns the totals of the last days UTC dates, oldest first.
// A record belongs to a day when its timestamp starts with that date.
func MilkDailyTrend(milk []models.MilkRecord, now time.Time, days int) []DailyProduction {
	trend := make([]DailyProduction, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).UTC().Format(time.DateOnly)
		day := DailyProduction{Date: date}
		for _, m := range milk {
			if strings.HasPrefix(m.Timestamp, date) {
				day.Liters += m.Quantity
			}
		}
		trend = append(trend, day)
	}
	return trend
}

// MilkQualityDistribution counts milkings per known quality.
func MilkQualityDistribution(milk []models.MilkRecord) []QualityCount {
	out := make([]QualityCount, 0, len(qualityOrder))
	for _, q := range qualityOrder {
		bucket := QualityCount{Quality: q}
		for _, m := range milk {
			if m.Quality == q {
				bucket.Count++
			}
		}
		out = append(out, bucket)
	}
	return out
}

// TopProducers ranks animals by cumulated yield, keyed by name. Ties keep
// first-seen order.
func TopProducers(milk []models.MilkRecord, n int) []Producer {
	index := make(map[string]int)
	var producers []Producer
	for _, m := range milk {
		i, ok := index[m.CattleName]
		if !ok {
			i = len(producers)
			index[m.CattleName] = i
			producers = append(producers, Producer{CattleName: m.CattleName})
		}
		producers[i].Liters += m.Quantity
	}

	sort.SliceStable(producers, func(a, b int) bool {
		return producers[a].Liters > producers[b].Liters
	})
	if len(producers) > n {
		producers = producers[:n]
	}
	return producers
}

// HealthDistribution counts checkups per status shown on the vet charts.
func HealthDistribution(records []models.HealthRecord) []StatusCount {
	out := make([]StatusCount, 0, len(healthOrder))
	for _, status := range healthOrder {
		bucket := StatusCount{Status: status}
		for _, r := range records {
			if r.HealthStatus == status {
				bucket.Count++
			}
		}
		out = append(out, bucket)
	}
	return out
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// parseTimestamp accepts the ISO forms written by the app and the date forms
// the spreadsheet produces when a cell is edited by hand.
func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
