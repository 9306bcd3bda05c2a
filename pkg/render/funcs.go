package render

import (
	"fmt"
	"time"
	"unicode/utf8"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatTime prints t relative to now, in Indonesian. Anything older than
// a week is printed as a date.
func FormatTime(t time.Time) string {
	return formatTimeAt(t, time.Now())
}

func formatTimeAt(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "baru saja"
	case diff < time.Hour:
		return fmt.Sprintf("%d menit lalu", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d jam lalu", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d hari lalu", int(diff.Hours()/24))
	default:
		return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
	}
}

// Truncate shortens s to at most length runes, ending in "..." when cut.
func Truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	r := []rune(s)
	if length <= 3 {
		return string(r[:length])
	}
	return string(r[:length-3]) + "..."
}

// FormatElapsed prints a search duration in milliseconds.
func FormatElapsed(ms int64) string {
	return fmt.Sprintf("%d ms", ms)
}
