package flatfile

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	UsersFile        = "users.txt"
	ConcertsFile     = "concerts.txt"
	TheatrePlaysFile = "theatreplays.txt"
	TicketsFile      = "tickets.txt"
	EventIndexFile   = "events.txt"
)

var errMalformedRecord = errors.New("malformed record")

func formatInt(n int) string {
	return strconv.Itoa(n)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// fieldReader decodes fields left to right and remembers the first failure,
// so a decoder can read a whole record and check once.
type fieldReader struct {
	fields []string
	pos    int
	err    error
}

func newFieldReader(fields []string, want int) *fieldReader {
	r := &fieldReader{fields: fields}
	if len(fields) != want {
		r.err = fmt.Errorf("%w: expected %d fields, got %d", errMalformedRecord, want, len(fields))
	}
	return r
}

func (r *fieldReader) next() string {
	if r.err != nil || r.pos >= len(r.fields) {
		return ""
	}
	f := r.fields[r.pos]
	r.pos++
	return f
}

func (r *fieldReader) text() string {
	return r.next()
}

func (r *fieldReader) integer() int {
	f := r.next()
	if r.err != nil {
		return 0
	}
	n, err := strconv.Atoi(f)
	if err != nil {
		r.err = fmt.Errorf("%w: field %d: %q is not an integer", errMalformedRecord, r.pos, f)
		return 0
	}
	return n
}

func (r *fieldReader) number() float64 {
	f := r.next()
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(f, 64)
	if err != nil {
		r.err = fmt.Errorf("%w: field %d: %q is not a number", errMalformedRecord, r.pos, f)
		return 0
	}
	return v
}
