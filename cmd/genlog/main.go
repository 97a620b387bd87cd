// Log generator: emits synthetic run-query driver output for exercising
// the converter end to end.
// Run: go run cmd/genlog/main.go -n 50 > 4osd-bench.log
// Verify: go run cmd/querylog/main.go -i 4osd-bench.log

package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
)

type options struct {
	Count   int    `short:"n" long:"count" default:"10" description:"number of run-query lines"`
	NumObjs int    `long:"num-objs" default:"10000" description:"num objects echoed per line"`
	Pool    string `long:"pool" default:"tpc" description:"pool name echoed per line"`
	Queries string `long:"queries" default:"a,b" value-name:"LIST" description:"comma-separated query names to cycle through"`
	UseCls  bool   `long:"use-cls" description:"mark half the lines as cls-executed"`
	Start   int64  `long:"start" default:"1493088000" description:"start timestamp of the first query"`
	Noise   bool   `long:"noise" description:"interleave drain and query-text noise lines"`
	Seed    int64  `long:"seed" default:"1" description:"rng seed"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	queries := splitList(opts.Queries)

	clock := float64(opts.Start)
	for i := 0; i < opts.Count; i++ {
		if opts.Noise && i%3 == 0 {
			fmt.Println("select count(*) from lineitem where l_extendedprice > 91400")
		}

		duration := 1.0 + rng.Float64()*180.0
		start := clock
		end := start + duration
		clock = end + rng.Float64()*5.0

		cls := ""
		if opts.UseCls && i%2 == 0 {
			cls = " --use-cls"
		}
		cache := "cold"
		if i%2 == 1 {
			cache = "hot"
		}

		fmt.Printf("run-query --num-objs %d --pool %s --wthreads 10 --qdepth 192 --quiet --extended-price 91400.0 --query %s%s selectivity-pct=1 cache=%s start=%.9f end=%.9f run-%d %012.9f\n",
			opts.NumObjs, opts.Pool, queries[i%len(queries)], cls, cache, start, end, i, duration)

		if opts.Noise && i%4 == 0 {
			fmt.Printf("draining ios: %d remaining\n", rng.Intn(192))
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		out = []string{"a"}
	}
	return out
}
