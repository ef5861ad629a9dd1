package analytics

import (
	"sort"
	"time"

	"github.com/neilberkman/recap/internal/models"
)

const dateLayout = "2006-01-02"

// computeStreakStats derives activity streaks from the distinct calendar
// dates conversations were started on. Consecutive dates extend a streak;
// any other gap closes it. A single isolated active day is a streak of 1
// with start == end.
func computeStreakStats(convs []models.ParsedConversation, today time.Time) models.StreakStats {
	if len(convs) == 0 {
		return models.StreakStats{}
	}

	seen := make(map[string]bool)
	var dates []string
	for _, c := range convs {
		key := c.CreatedAt.Format(dateLayout)
		if !seen[key] {
			seen[key] = true
			dates = append(dates, key)
		}
	}
	sort.Strings(dates)

	longest := 1
	longestStart, longestEnd := dates[0], dates[0]
	runLength := 1
	runStart := dates[0]

	for i := 1; i < len(dates); i++ {
		if dayDiff(dates[i-1], dates[i]) == 1 {
			runLength++
			continue
		}
		if runLength > longest {
			longest = runLength
			longestStart = runStart
			longestEnd = dates[i-1]
		}
		runLength = 1
		runStart = dates[i]
	}
	if runLength > longest {
		longest = runLength
		longestStart = runStart
		longestEnd = dates[len(dates)-1]
	}

	start := parseDate(longestStart)
	end := parseDate(longestEnd)

	return models.StreakStats{
		CurrentStreak:      currentStreak(seen, dates[0], today),
		LongestStreak:      longest,
		LongestStreakStart: &start,
		LongestStreakEnd:   &end,
	}
}

// currentStreak walks backward from today counting consecutive active
// days. Today itself gets a one-day grace when inactive (the user may
// simply not have chatted yet); no earlier day does. Inherited behavior,
// kept as-is.
func currentStreak(seen map[string]bool, earliest string, today time.Time) int {
	todayKey := today.Format(dateLayout)
	first := parseDate(earliest)

	streak := 0
	found := false
	for d := parseDate(todayKey); !d.Before(first); d = d.AddDate(0, 0, -1) {
		key := d.Format(dateLayout)
		if !found {
			if seen[key] {
				found = true
				streak = 1
			} else if key == todayKey {
				continue
			} else {
				break
			}
		} else if seen[key] {
			streak++
		} else {
			break
		}
	}

	return streak
}

// dayDiff returns the whole days between two date keys, a < b.
func dayDiff(a, b string) int {
	return int(parseDate(b).Sub(parseDate(a)).Hours() / 24)
}

// parseDate maps a YYYY-MM-DD key to UTC midnight. Streak arithmetic runs
// entirely on these normalized instants so DST shifts cannot skew gaps.
func parseDate(key string) time.Time {
	t, _ := time.Parse(dateLayout, key)
	return t
}
