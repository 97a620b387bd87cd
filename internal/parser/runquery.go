package parser

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"querylog/internal/record"
)

// linePrefix identifies the driver echo lines we extract fields from.
// Everything else in the log (query text, drain progress) is noise.
const linePrefix = "run-query"

// namedFlags are taken by position: the lineitem after the flag name is
// the value. num-objs is the only one stored under a shortened key.
var namedFlags = []struct{ flag, field string }{
	{"num-objs", "nobjs"},
	{"wthreads", "wthreads"},
	{"qdepth", "qdepth"},
	{"query", "query"},
	{"pool", "pool"},
	{"dir", "dir"},
}

func init() { Register("run-query", func(debug bool) LineParser { return NewRunQueryParser(debug) }) }

// RunQueryParser extracts a record from one run-query line. It carries
// the epoch anchor for the scan: the integer start timestamp of the
// first line parsed, set once and never re-anchored, which all later
// lines' offset fields are computed against.
type RunQueryParser struct {
	epoch    int64
	anchored bool

	debug bool
	trace *log.Logger
}

func NewRunQueryParser(debug bool) *RunQueryParser {
	// Traces go to stdout alongside the CSV, matching the historical
	// behavior of the converter this replaces.
	return &RunQueryParser{debug: debug, trace: log.New(os.Stdout, "", 0)}
}

func (p *RunQueryParser) Matches(line string) bool {
	return strings.HasPrefix(line, linePrefix)
}

// Parse tokenizes the line, runs the named-flag pass and the key=value
// pass (in that order, first occurrence wins), then fills the derived
// fields. Lines missing start or end are hard errors.
func (p *RunQueryParser) Parse(line string) (*record.Record, error) {
	tokens, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("tokenizing line: %w", err)
	}

	// Drop the leading "run-query" and the trailing duration token.
	if len(tokens) > 0 {
		tokens = tokens[1:]
	}
	if len(tokens) > 0 {
		tokens = tokens[:len(tokens)-1]
	}

	items := make([]string, len(tokens))
	for i, t := range tokens {
		items[i] = strings.TrimLeft(t, "-")
	}
	if p.debug {
		p.trace.Printf("lineitems %v", items)
	}

	rec := record.New()

	for _, nf := range namedFlags {
		idx := slices.Index(items, nf.flag)
		if idx < 0 {
			continue
		}
		if idx+1 >= len(items) {
			return nil, fmt.Errorf("flag %q has no value", nf.flag)
		}
		rec.Set(nf.field, items[idx+1])
	}

	if slices.Contains(items, "use-cls") {
		rec.Set("cls", "use-cls")
	} else {
		rec.Set("cls", "no-cls")
	}

	for _, item := range items {
		key, value, found := strings.Cut(item, "=")
		if found && (key == "start" || key == "end") {
			value, err = truncateSeconds(value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
		}
		// Tokens shaped like run-6 carry the run number in the key
		// itself. The rewrite applies to any key starting with "run",
		// split or not.
		if strings.HasPrefix(key, "run") {
			seg := strings.SplitN(key, "-", 3)
			if len(seg) < 2 {
				return nil, fmt.Errorf("run token %q has no run number", item)
			}
			value = seg[1]
			key = "run"
		}
		rec.Set(key, value)
	}

	if !rec.Has("resp-time") {
		start, err := fieldFloat(rec, "start")
		if err != nil {
			return nil, err
		}
		end, err := fieldFloat(rec, "end")
		if err != nil {
			return nil, err
		}
		rec.Put("resp-time", strconv.FormatInt(int64(end-start), 10))
	}

	startSec, err := fieldInt(rec, "start")
	if err != nil {
		return nil, err
	}
	endSec, err := fieldInt(rec, "end")
	if err != nil {
		return nil, err
	}
	if !p.anchored {
		p.epoch = startSec
		p.anchored = true
	}
	rec.Put("offset-from-epoch-qstart", strconv.FormatInt(startSec-p.epoch, 10))
	rec.Put("offset-from-epoch-qend", strconv.FormatInt(endSec-p.epoch, 10))

	if p.debug {
		p.trace.Printf("dict %s", rec)
	}
	return rec, nil
}

// Epoch reports the anchor timestamp and whether it has been set.
func (p *RunQueryParser) Epoch() (int64, bool) {
	return p.epoch, p.anchored
}

// truncateSeconds drops sub-second precision from an epoch timestamp,
// keeping it as a string field.
func truncateSeconds(s string) (string, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(f), 10), nil
}

func fieldFloat(rec *record.Record, key string) (float64, error) {
	v, err := rec.Get(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return f, nil
}

func fieldInt(rec *record.Record, key string) (int64, error) {
	v, err := rec.Get(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return n, nil
}
