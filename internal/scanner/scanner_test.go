package scanner

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"querylog/internal/collector"
	"querylog/internal/parser"
	"querylog/internal/record"
)

const logContent = `select count(*) from lineitem where l_extendedprice > 91400
run-query --num-objs 10000 --pool tpc --wthreads 10 --qdepth 192 --quiet --extended-price 91400.0 --query a --use-cls selectivity-pct=1 cache=hot start=1493088002.115970619 end=1493088006.015125206 run-6 03.899154587
draining ios: 192 remaining
run-query --num-objs 10000 --pool tpc --wthreads 10 --qdepth 192 --quiet --extended-price 91400.0 --query a selectivity-pct=1 cache=hot start=1493088102.394655435 end=1493088268.134972615 run-6 0165.740317180
draining ios: 138 remaining
`

func newScanner(out *bytes.Buffer) *Scanner {
	return New(parser.NewRunQueryParser(false), collector.NewScanMetrics(), out)
}

// chdir changes into dir and restores the working directory on cleanup.
// Equivalent to t.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func writeLog(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanFile(t *testing.T) {
	chdir(t, t.TempDir())
	writeLog(t, "4osd-bench.log", logContent)

	var out bytes.Buffer
	if err := newScanner(&out).ScanFile("4osd-bench.log"); err != nil {
		t.Fatalf("ScanFile failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d output lines; want header + 2 rows:\n%s", len(lines), out.String())
	}
	if lines[0] != record.HeaderLine() {
		t.Errorf("header = %q; want %q", lines[0], record.HeaderLine())
	}

	// Noise lines never reach the output and never anchor the epoch:
	// the first run-query line gets offset 0 even though it is not the
	// first line of the file.
	want1 := "4osd-bench.log,4,10000,a,1,use-cls,hot,1493088002,1493088006,4,0,4"
	want2 := "4osd-bench.log,4,10000,a,1,no-cls,hot,1493088102,1493088268,166,100,266"
	if lines[1] != want1 {
		t.Errorf("row 1 = %q; want %q", lines[1], want1)
	}
	if lines[2] != want2 {
		t.Errorf("row 2 = %q; want %q", lines[2], want2)
	}
}

func TestScanFileGzip(t *testing.T) {
	chdir(t, t.TempDir())

	f, err := os.Create("2osd-bench.log.gz")
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(logContent)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := newScanner(&out).ScanFile("2osd-bench.log.gz"); err != nil {
		t.Fatalf("ScanFile failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d output lines; want header + 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2osd-bench.log.gz,2,") {
		t.Errorf("row 1 = %q; want filename and nosds=2 first", lines[1])
	}
}

func TestScanFileMissingFieldAborts(t *testing.T) {
	chdir(t, t.TempDir())
	// Valid enough to extract but missing header fields (no cache, no
	// selectivity-pct): the whole run must fail, not skip the row.
	writeLog(t, "1osd-bad.log", "run-query --query a start=1.0 end=2.0 run-0 0.0\n")

	var out bytes.Buffer
	err := newScanner(&out).ScanFile("1osd-bad.log")
	if err == nil {
		t.Fatal("ScanFile succeeded; want error")
	}
	if got := strings.TrimRight(out.String(), "\n"); got != record.HeaderLine() {
		t.Errorf("output after failure = %q; want header only", got)
	}
}

func TestNosds(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		cleanSuffix bool
		want        string
	}{
		{"digit osd pattern", "4osd-bench.log", false, "4"},
		{"multi digit", "12osd-run7.log", false, "12"},
		{"fallback strips cutset", "clusterosds.log", false, "cluster"},
		{"cutset eats past suffix", "mylogosds.log", false, "my"},
		{"clean suffix mode", "mylogosds.log", true, "mylog"},
		{"clean suffix no match", "run7.txt", true, "run7.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScanner(&bytes.Buffer{})
			s.CleanSuffix = tt.cleanSuffix
			if got := s.nosds(tt.path); got != tt.want {
				t.Errorf("nosds(%q) = %q; want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestScanFileOpenError(t *testing.T) {
	var out bytes.Buffer
	if err := newScanner(&out).ScanFile("does-not-exist.log"); err == nil {
		t.Fatal("ScanFile on missing file succeeded; want error")
	}
	if out.Len() != 0 {
		t.Errorf("output written before open: %q", out.String())
	}
}
