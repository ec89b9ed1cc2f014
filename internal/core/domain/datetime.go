package domain

import (
	"fmt"
	"strconv"
	"time"
)

const (
	dateLayoutLen     = len("2006-01-02")
	dateTimeLayoutLen = len("2006-01-02 15:04:05")
)

// DateTime is a calendar value with second precision. The zero value means
// "unknown": it is what malformed text parses to.
type DateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// ParseDateTime accepts "YYYY-MM-DD" or "YYYY-MM-DD HH:MM:SS". Anything it
// cannot read yields the zero DateTime.
func ParseDateTime(s string) DateTime {
	if len(s) < dateLayoutLen {
		return DateTime{}
	}

	if s[4] != '-' || s[7] != '-' {
		return DateTime{}
	}

	var dt DateTime
	var ok bool

	if dt.Year, ok = atoi(s[0:4]); !ok {
		return DateTime{}
	}
	if dt.Month, ok = atoi(s[5:7]); !ok {
		return DateTime{}
	}
	if dt.Day, ok = atoi(s[8:10]); !ok {
		return DateTime{}
	}

	if len(s) > dateLayoutLen && s[10] != ' ' {
		return DateTime{}
	}

	if len(s) >= dateTimeLayoutLen {
		if s[13] != ':' || s[16] != ':' {
			return DateTime{}
		}
		if dt.Hour, ok = atoi(s[11:13]); !ok {
			return DateTime{}
		}
		if dt.Minute, ok = atoi(s[14:16]); !ok {
			return DateTime{}
		}
		if dt.Second, ok = atoi(s[17:19]); !ok {
			return DateTime{}
		}
	}

	return dt
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// FromTime converts a wall-clock instant in its own location.
func FromTime(t time.Time) DateTime {
	return DateTime{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

func (d DateTime) IsZero() bool {
	return d == DateTime{}
}

// String renders "YYYY-MM-DD HH:MM:SS".
func (d DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

// DateString renders "YYYY-MM-DD".
func (d DateTime) DateString() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// SameDate reports whether both values fall on the same calendar day.
func (d DateTime) SameDate(other DateTime) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// Compare returns -1, 0 or +1 ordering by year, month, day, hour, minute, second.
func (d DateTime) Compare(other DateTime) int {
	a := [...]int{d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second}
	b := [...]int{other.Year, other.Month, other.Day, other.Hour, other.Minute, other.Second}

	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}

	return 0
}

func (d DateTime) Before(other DateTime) bool {
	return d.Compare(other) < 0
}

func (d DateTime) After(other DateTime) bool {
	return d.Compare(other) > 0
}
