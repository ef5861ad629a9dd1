package analytics

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

var dayNames = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// modelDisplayNames maps slug fragments to friendly names. Order matters:
// the first fragment contained in the slug wins.
var modelDisplayNames = []struct {
	slug string
	name string
}{
	{"gpt-4", "GPT-4"},
	{"gpt-4o", "GPT-4o"},
	{"gpt-4o-mini", "GPT-4o Mini"},
	{"gpt-4-turbo", "GPT-4 Turbo"},
	{"gpt-4-browsing", "GPT-4 (Browse)"},
	{"gpt-4-code-interpreter", "GPT-4 (Code)"},
	{"gpt-4-plugins", "GPT-4 (Plugins)"},
	{"gpt-4-gizmo", "Custom GPT"},
	{"gpt-3.5-turbo", "GPT-3.5 Turbo"},
	{"text-davinci-002-render-sha", "GPT-3.5"},
	{"o1-preview", "o1 Preview"},
	{"o1-mini", "o1 Mini"},
}

const gizmoSlugMarker = "gpt-4-gizmo"

// FormatHour renders an hour index (0-23) as a 12-hour clock label.
func FormatHour(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour == 12:
		return "12 PM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// FormatDay renders a weekday index (0 = Sunday) as its English name.
func FormatDay(day int) string {
	return dayNames[day]
}

// FormatMonth renders a month index (0 = January) as its English name.
func FormatMonth(month int) string {
	return monthNames[month]
}

// ModelDisplayName maps a model slug to a friendly display name by
// substring match; unknown slugs pass through unchanged.
func ModelDisplayName(slug string) string {
	for _, entry := range modelDisplayNames {
		if strings.Contains(slug, entry.slug) {
			return entry.name
		}
	}
	return slug
}

// WordCountLabel renders a word total with thousands separators.
func WordCountLabel(words int) string {
	return fmt.Sprintf("%s words", humanize.Comma(int64(words)))
}

func containsGizmoSlug(slug string) bool {
	return strings.Contains(slug, gizmoSlugMarker)
}
