// Package interval provides calendar bucketing helpers for the pace
// pipeline: whole-night counting between timestamps and day/month
// sub-period sequences spanning a stay window.
package interval

import "time"

// Interval is the granularity of an evaluation sub-period.
type Interval string

const (
	Day   Interval = "day"
	Month Interval = "month"
)

// Valid reports whether v names a supported interval.
func Valid(v Interval) bool {
	return v == Day || v == Month
}

// Nights returns the number of whole nights between start and end.
// Timestamps are truncated to their calendar date in UTC first, so the
// time-of-day component never contributes a partial night. When
// inclusive is true the boundary night is counted as well; clipping a
// stay to a period boundary uses the exclusive form so the night is
// not attributed to two adjacent buckets.
func Nights(start, end time.Time, inclusive bool) int {
	s := dateOf(start)
	e := dateOf(end)
	if !e.After(s) {
		if inclusive && e.Equal(s) {
			return 1
		}
		return 0
	}
	n := int(e.Sub(s).Hours() / 24)
	if inclusive {
		n++
	}
	return n
}

// DatePeriod returns the sequence of bucket-start timestamps covering
// [from, to] at the given step. The sequence is finite, ascending and
// deterministic for a given input. An empty slice is returned when to
// precedes from or the step is unknown.
func DatePeriod(from, to time.Time, step Interval) []time.Time {
	if to.Before(from) {
		return nil
	}

	var starts []time.Time
	switch step {
	case Day:
		for cur, last := dateOf(from), dateOf(to); !cur.After(last); cur = cur.AddDate(0, 0, 1) {
			starts = append(starts, cur)
		}
	case Month:
		for cur, last := monthOf(from), monthOf(to); !cur.After(last); cur = cur.AddDate(0, 1, 0) {
			starts = append(starts, cur)
		}
	}
	return starts
}

// BucketEnd returns the exclusive upper bound of the bucket beginning
// at start: the start of the next day or month.
func BucketEnd(start time.Time, step Interval) time.Time {
	switch step {
	case Month:
		return monthOf(start).AddDate(0, 1, 0)
	default:
		return dateOf(start).AddDate(0, 0, 1)
	}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	return dateOf(t)
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
