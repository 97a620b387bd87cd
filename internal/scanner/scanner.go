package scanner

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/klauspost/compress/gzip"

	"querylog/internal/collector"
	"querylog/internal/parser"
	"querylog/internal/record"
	"querylog/internal/tailer"
)

// nosdsPattern pulls the storage daemon count out of log filenames
// shaped like 4osd-bench.log.
var nosdsPattern = regexp.MustCompile(`(\d+)osd.+`)

// Scanner drives extraction over one log file and renders CSV rows to
// Out. Extraction is strictly in line order: the first matched line
// anchors the epoch the offset fields of every later row are computed
// against, so there is no fan-out.
type Scanner struct {
	Parser  parser.LineParser
	Metrics *collector.ScanMetrics
	Out     io.Writer

	// CleanSuffix switches the nosds fallback from the historical
	// character-set strip to exact suffix removal.
	CleanSuffix bool
	Debug       bool

	matched int
	skipped int
}

func New(p parser.LineParser, m *collector.ScanMetrics, out io.Writer) *Scanner {
	return &Scanner{Parser: p, Metrics: m, Out: out}
}

// ScanFile converts the file at path in one pass. The header row is
// written first; any extraction or field-lookup error aborts the scan
// with no partial row written. Files ending in .gz are decompressed
// transparently.
func (s *Scanner) ScanFile(path string) error {
	in, closeIn, err := openInput(path)
	if err != nil {
		return err
	}
	defer closeIn()

	fmt.Fprintln(s.Out, record.HeaderLine())

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := s.processLine(path, sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	s.summary(path)
	return nil
}

// Follow converts the file as it grows, emitting a row per matched line
// as it arrives. Returns only on a read or extraction error.
func (s *Scanner) Follow(path string) error {
	t, err := tailer.TailFile(path, true)
	if err != nil {
		return err
	}
	defer t.Cleanup()

	fmt.Fprintln(s.Out, record.HeaderLine())

	for line := range t.Lines {
		if line.Err != nil {
			return fmt.Errorf("reading %s: %w", path, line.Err)
		}
		if err := s.processLine(path, line.Text); err != nil {
			return err
		}
	}
	return t.Err()
}

func (s *Scanner) processLine(path, line string) error {
	matched := s.Parser.Matches(line)
	s.Metrics.ProcessLine(path, matched)
	if !matched {
		s.skipped++
		return nil
	}

	rec, err := s.Parser.Parse(line)
	if err != nil {
		return fmt.Errorf("failed to parse line %q: %w", line, err)
	}
	s.matched++

	rec.Put("filename", path)
	rec.Put("nosds", s.nosds(path))

	row, err := rec.Row()
	if err != nil {
		return fmt.Errorf("line %q: %w", line, err)
	}
	fmt.Fprintln(s.Out, row)
	return nil
}

// nosds derives the storage daemon count from the log filename. When
// the digits+osd pattern is absent the historical fallback strips the
// characters of "osds.log" off the end of the name, which is a cutset
// strip rather than suffix removal (clusterosds.log becomes cluster).
func (s *Scanner) nosds(path string) string {
	if m := nosdsPattern.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	if s.CleanSuffix {
		trimmed, _ := strings.CutSuffix(path, "osds.log")
		return trimmed
	}
	return strings.TrimRight(path, "osds.log")
}

func (s *Scanner) summary(path string) {
	if s.Debug {
		log.Printf("%s: %d rows, %d lines skipped", path, s.matched, s.skipped)
	}
}

func openInput(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("opening %s: %w", path, err)
		}
		return zr, func() error {
			zr.Close()
			return f.Close()
		}, nil
	}
	return f, f.Close, nil
}
