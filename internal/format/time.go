// Package format renders timestamps and sizes for console output.
package format

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Getter looks up a config value.
type Getter func(key string) (string, bool)

// Formatter formats times according to the display_date and display_time keys.
type Formatter struct {
	displayDate string
	displayTime string
}

// New reads the display settings through get. A nil get uses the defaults.
func New(get Getter) Formatter {
	f := Formatter{displayDate: "Jan 02", displayTime: "24h"}
	if get == nil {
		return f
	}
	if v, ok := get("display_date"); ok && v != "" {
		f.displayDate = v
	}
	if v, ok := get("display_time"); ok && v != "" {
		f.displayTime = v
	}
	return f
}

// DateTime formats date and time, e.g. "23/01/2024 15:04" or "01/23/2024 3:04 PM".
func (f Formatter) DateTime(t time.Time) string {
	return f.Date(t) + " " + f.Time(t)
}

// DateTimeShort formats date without year and time, e.g. "23/01 15:04".
func (f Formatter) DateTimeShort(t time.Time) string {
	return f.DateShort(t) + " " + f.Time(t)
}

// Date formats only the date portion.
func (f Formatter) Date(t time.Time) string {
	return t.Format(f.dateLayout())
}

// DateShort formats the date without year.
func (f Formatter) DateShort(t time.Time) string {
	return t.Format(f.dateLayoutShort())
}

// Time formats only the time portion.
func (f Formatter) Time(t time.Time) string {
	if f.displayTime == "12h" {
		return t.Format("3:04 PM")
	}
	return t.Format("15:04")
}

// TimeFull formats time with seconds.
func (f Formatter) TimeFull(t time.Time) string {
	if f.displayTime == "12h" {
		return t.Format("3:04:05 PM")
	}
	return t.Format("15:04:05")
}

// Full formats date and time with seconds.
func (f Formatter) Full(t time.Time) string {
	return f.Date(t) + " " + f.TimeFull(t)
}

func (f Formatter) dateLayout() string {
	switch f.displayDate {
	case "mm/dd/yyyy":
		return "01/02/2006"
	case "yyyy-mm-dd":
		return "2006-01-02"
	case "dd/mm/yyyy":
		return "02/01/2006"
	default:
		// custom Go layout
		return f.displayDate
	}
}

func (f Formatter) dateLayoutShort() string {
	switch f.displayDate {
	case "mm/dd/yyyy":
		return "01/02"
	case "yyyy-mm-dd":
		return "01-02"
	case "dd/mm/yyyy":
		return "02/01"
	default:
		short := f.displayDate
		for _, year := range []string{"2006", "/06", "-06", " 06"} {
			short = strings.ReplaceAll(short, year, "")
		}
		short = strings.Trim(strings.TrimSpace(short), "/-")
		if short == "" {
			return "Jan 02"
		}
		return short
	}
}

// Relative renders t relative to now, e.g. "3 minutes ago".
func Relative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// Bytes renders a size in SI units, e.g. "1.2 kB".
func Bytes(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return humanize.Bytes(uint64(n))
}

// Count renders n with thousands separators.
func Count(n int64) string {
	return humanize.Comma(n)
}
