// Package stats aggregates a player's workouts into the figures behind the
// dashboard charts. Everything here is pure and works in UTC days.
package stats

import (
	"alcyxob/sportlink/internal/domain"
	"math"
	"sort"
	"strings"
	"time"
)

const (
	DefaultDays = 30
	MaxDays     = 365
)

const dayLayout = "2006-01-02"

type Totals struct {
	Workouts     int     `json:"workouts"`
	Minutes      int     `json:"minutes"`
	Calories     int     `json:"calories"`
	AvgIntensity float64 `json:"avgIntensity"`
}

// DayPoint is one bar in the per-day series.
type DayPoint struct {
	Date     string `json:"date"`
	Workouts int    `json:"workouts"`
	Minutes  int    `json:"minutes"`
	Calories int    `json:"calories"`
}

type TypeBreakdown struct {
	Type     domain.WorkoutType `json:"type"`
	Workouts int                `json:"workouts"`
	Minutes  int                `json:"minutes"`
}

// PersonalBest is the heaviest logged weight for one exercise.
type PersonalBest struct {
	Exercise string    `json:"exercise"`
	WeightKg float64   `json:"weightKg"`
	Date     time.Time `json:"date"`
}

type Summary struct {
	Days          int             `json:"days"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	Totals        Totals          `json:"totals"`
	Daily         []DayPoint      `json:"daily"`
	ByType        []TypeBreakdown `json:"byType"`
	CurrentStreak int             `json:"currentStreak"`
	LongestStreak int             `json:"longestStreak"`
	PersonalBests []PersonalBest  `json:"personalBests"`
}

// ClampDays maps a requested window onto [1, MaxDays], using DefaultDays
// for zero or negative input.
func ClampDays(days int) int {
	if days <= 0 {
		return DefaultDays
	}
	if days > MaxDays {
		return MaxDays
	}
	return days
}

// WindowStart returns midnight UTC of the first day of a days-long window
// ending on now's day.
func WindowStart(now time.Time, days int) time.Time {
	return truncateDay(now).AddDate(0, 0, -(ClampDays(days) - 1))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Compute aggregates workouts falling inside the days-long window that
// ends on now's day. Workouts outside the window are ignored.
func Compute(workouts []domain.Workout, days int, now time.Time) Summary {
	days = ClampDays(days)
	today := truncateDay(now)
	from := today.AddDate(0, 0, -(days - 1))

	s := Summary{
		Days:          days,
		From:          from.Format(dayLayout),
		To:            today.Format(dayLayout),
		Daily:         make([]DayPoint, days),
		ByType:        []TypeBreakdown{},
		PersonalBests: []PersonalBest{},
	}
	for i := range s.Daily {
		s.Daily[i].Date = from.AddDate(0, 0, i).Format(dayLayout)
	}

	byType := map[domain.WorkoutType]*TypeBreakdown{}
	bests := map[string]*PersonalBest{}
	intensitySum, intensityN := 0, 0

	for _, w := range workouts {
		day := truncateDay(w.Date)
		if day.Before(from) || day.After(today) {
			continue
		}
		idx := int(day.Sub(from).Hours() / 24)
		p := &s.Daily[idx]
		p.Workouts++
		p.Minutes += w.DurationMin
		p.Calories += w.CaloriesBurned

		s.Totals.Workouts++
		s.Totals.Minutes += w.DurationMin
		s.Totals.Calories += w.CaloriesBurned
		if w.Intensity > 0 {
			intensitySum += w.Intensity
			intensityN++
		}

		t := w.Type
		if t == "" {
			t = domain.WorkoutOther
		}
		b, ok := byType[t]
		if !ok {
			b = &TypeBreakdown{Type: t}
			byType[t] = b
		}
		b.Workouts++
		b.Minutes += w.DurationMin

		for _, e := range w.Exercises {
			name := strings.TrimSpace(e.Name)
			if name == "" || e.WeightKg <= 0 {
				continue
			}
			key := strings.ToLower(name)
			if cur, ok := bests[key]; !ok || e.WeightKg > cur.WeightKg {
				bests[key] = &PersonalBest{Exercise: name, WeightKg: e.WeightKg, Date: w.Date}
			}
		}
	}

	if intensityN > 0 {
		s.Totals.AvgIntensity = math.Round(float64(intensitySum)/float64(intensityN)*10) / 10
	}

	for _, b := range byType {
		s.ByType = append(s.ByType, *b)
	}
	sort.Slice(s.ByType, func(i, j int) bool {
		if s.ByType[i].Minutes != s.ByType[j].Minutes {
			return s.ByType[i].Minutes > s.ByType[j].Minutes
		}
		return s.ByType[i].Type < s.ByType[j].Type
	})

	for _, pb := range bests {
		s.PersonalBests = append(s.PersonalBests, *pb)
	}
	sort.Slice(s.PersonalBests, func(i, j int) bool {
		return strings.ToLower(s.PersonalBests[i].Exercise) < strings.ToLower(s.PersonalBests[j].Exercise)
	})

	s.CurrentStreak, s.LongestStreak = streaks(s.Daily)
	return s
}

// streaks walks the zero-filled series. The current streak may end today
// or yesterday, so a rest day so far today does not reset it.
func streaks(daily []DayPoint) (current, longest int) {
	run := 0
	for _, p := range daily {
		if p.Workouts > 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	end := len(daily) - 1
	if end >= 0 && daily[end].Workouts == 0 {
		end--
	}
	for i := end; i >= 0 && daily[i].Workouts > 0; i-- {
		current++
	}
	return current, longest
}
