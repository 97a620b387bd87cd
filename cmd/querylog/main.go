package main

import (
	"log"
	"net/http"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"querylog/internal/collector"
	"querylog/internal/config"
	"querylog/internal/parser"
	"querylog/internal/scanner"
)

type options struct {
	Input  string `short:"i" long:"input" required:"true" value-name:"FILE" description:"query result log to parse"`
	Query  string `short:"q" long:"query" value-name:"NAME" description:"query name (accepted for compatibility, unused)"`
	Epoch  int64  `short:"e" long:"epoch" value-name:"SECONDS" description:"epoch start (accepted for compatibility, unused)"`
	Debug  bool   `short:"d" long:"debug" description:"trace lineitems and records to stdout"`
	Follow bool   `short:"f" long:"follow" description:"keep converting as the log grows"`

	Format      string `long:"format" value-name:"NAME" default:"run-query" description:"log line format"`
	MetricsAddr string `long:"metrics-addr" value-name:"ADDR" description:"serve Prometheus scan counters at this address while following"`
	CleanSuffix bool   `long:"clean-suffix" description:"derive the nosds fallback by exact suffix removal"`
}

func main() {
	cfg := config.Load()

	var opts options
	opts.Debug = cfg.Debug
	opts.MetricsAddr = cfg.MetricsAddr

	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	// -q and -e are part of the historical interface. Their values are
	// never read back.
	_ = opts.Query
	_ = opts.Epoch

	p, err := parser.Get(opts.Format, opts.Debug)
	if err != nil {
		log.Fatal(err)
	}

	metrics := collector.NewScanMetrics()
	metrics.Register(prometheus.DefaultRegisterer)

	sc := scanner.New(p, metrics, os.Stdout)
	sc.CleanSuffix = opts.CleanSuffix
	sc.Debug = opts.Debug

	if opts.Follow {
		go serveMetrics(opts.MetricsAddr)
		err = sc.Follow(opts.Input)
	} else {
		err = sc.ScanFile(opts.Input)
	}
	if err != nil {
		log.Fatalf("scan %s: %v", opts.Input, err)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Printf("metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("metrics server: %v", err)
	}
}
