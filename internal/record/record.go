package record

import (
	"errors"
	"fmt"
	"strings"
)

// Header is the fixed CSV column order. Every emitted row must provide
// all of these fields.
var Header = []string{
	"filename",
	"nosds",
	"nobjs",
	"query",
	"selectivity-pct",
	"cls",
	"cache",
	"start",
	"end",
	"resp-time",
	"offset-from-epoch-qstart",
	"offset-from-epoch-qend",
}

// ErrMissingField is returned when a field required by the header is
// absent from a record.
var ErrMissingField = errors.New("missing field")

// Record is a string-valued field map extracted from one log line.
// Writes are first-occurrence-wins: Set is a no-op for keys already
// present, which is what gives the named-flag pass precedence over the
// generic key=value pass.
type Record struct {
	fields map[string]string
}

func New() *Record {
	return &Record{fields: make(map[string]string)}
}

// Set inserts the value only if the key is not already present.
func (r *Record) Set(key, value string) {
	if _, ok := r.fields[key]; !ok {
		r.fields[key] = value
	}
}

// Put overwrites unconditionally. Used by the scanner for fields it
// owns (filename, nosds).
func (r *Record) Put(key, value string) {
	r.fields[key] = value
}

func (r *Record) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

func (r *Record) Get(key string) (string, error) {
	v, ok := r.fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingField, key)
	}
	return v, nil
}

// HeaderLine returns the comma-joined CSV header.
func HeaderLine() string {
	return strings.Join(Header, ",")
}

// Row renders the record in header order. Values are joined raw, no
// quoting: the log format guarantees comma-free values and downstream
// consumers expect exactly this shape.
func (r *Record) Row() (string, error) {
	values := make([]string, 0, len(Header))
	for _, k := range Header {
		v, err := r.Get(k)
		if err != nil {
			return "", err
		}
		values = append(values, v)
	}
	return strings.Join(values, ","), nil
}

// String formats the record for debug tracing, in header order where
// possible so traces are stable.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for _, k := range Header {
		if v, ok := r.fields[k]; ok {
			if !first {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", k, v)
			first = false
		}
	}
	for k, v := range r.fields {
		if !headerField(k) {
			if !first {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", k, v)
			first = false
		}
	}
	b.WriteByte('}')
	return b.String()
}

func headerField(k string) bool {
	for _, h := range Header {
		if h == k {
			return true
		}
	}
	return false
}
