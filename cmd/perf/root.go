package perf

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	cmdUtil "github.com/ValentinKolb/serjs/cmd/util"
	"github.com/ValentinKolb/serjs/lib/serializer"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sampleSize is the number of latencies kept per benchmark for the percentiles
const sampleSize = 4096

var (
	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the serializer",
		Long:    "Serialize a set of built-in payloads in parallel and report the throughput and latency percentiles of each of them.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfNumThreads = 10
	perfSize       = 1000
	perfSkip       = make([]string, 0)
	perfCSV        = ""
	perfVerbose    = false
)

func init() {
	// add flags
	key := "skip"
	PerfCmd.Flags().String(key, "", cmdUtil.WrapString("Benchmarks to skip (comma separated - e.g. plain,large)"))
	key = "threads"
	PerfCmd.Flags().Int(key, 10, cmdUtil.WrapString("Number of goroutines per CPU to use for the benchmark"))
	key = "size"
	PerfCmd.Flags().Int(key, 1000, cmdUtil.WrapString("Number of elements of the large and sparse payloads"))
	key = "csv"
	PerfCmd.Flags().String(key, "", cmdUtil.WrapString("Optional path to save benchmark results as CSV"))
	key = "verbose"
	PerfCmd.Flags().Bool(key, false, cmdUtil.WrapString("Print all collected latency metrics after the run"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = viper.GetInt("threads")
	perfSize = viper.GetInt("size")
	perfSkip = strings.Split(viper.GetString("skip"), ",")
	perfCSV = viper.GetString("csv")
	perfVerbose = viper.GetBool("verbose")

	if perfNumThreads <= 0 {
		return fmt.Errorf("threads must be positive, got %d", perfNumThreads)
	}
	if perfSize <= 0 {
		return fmt.Errorf("size must be positive, got %d", perfSize)
	}
	return nil
}

// result is the outcome of a single benchmark
type result struct {
	bench     testing.BenchmarkResult
	latencies gometrics.Histogram
	errors    int64
}

func run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}
	opts := cmdUtil.GetOptions()

	fmt.Fprintln(out, "Performance testing tool for the serializer")

	// Print configuration
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "Source: %s\n", viper.GetString("source"))
	fmt.Fprintf(out, "Options: %s\n", opts.String())
	fmt.Fprintf(out, "Threads: %d\n", perfNumThreads)
	fmt.Fprintf(out, "Size: %d\n", perfSize)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "starting tests...")

	registry := gometrics.NewRegistry()
	results := make(map[string]result)
	names := make([]string, 0)

	for _, p := range payloads() {
		names = append(names, p.name)
		if shouldSkip(p.name) {
			results[p.name] = result{}
			printResult(out, p.name, results[p.name])
			continue
		}

		r := benchmark(s, opts, p.build(perfSize))
		if err := registry.Register(p.name, r.latencies); err != nil {
			return err
		}
		results[p.name] = r
		printResult(out, p.name, r)
	}

	if perfVerbose {
		fmt.Fprintln(out)
		gometrics.WriteOnce(registry, out)
	}

	if perfCSV != "" {
		if err := writeResultsToCSV(perfCSV, names, results, opts); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nResults written to %s\n", perfCSV)
	}

	return nil
}

// benchmark serializes v in parallel and records the latency of every call
func benchmark(s serializer.ISerializer, opts serializer.Options, v any) result {
	var r result

	r.bench = testing.Benchmark(func(b *testing.B) {
		// testing.Benchmark calls this function with growing b.N, only the last run is reported
		latencies := gometrics.NewHistogram(gometrics.NewUniformSample(sampleSize))
		errCount := gometrics.NewCounter()
		r.latencies = latencies

		b.SetParallelism(perfNumThreads)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				start := time.Now()
				if _, err := s.Serialize(v, serializer.WithOptions(opts)); err != nil {
					errCount.Inc(1)
				}
				latencies.Update(int64(time.Since(start)))
			}
		})

		r.errors = errCount.Count()
	})

	return r
}

// shouldSkip checks if a test should be skipped
func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// percentiles returns the p50 and p99 latencies of r
func percentiles(r result) (time.Duration, time.Duration) {
	if r.latencies == nil || r.latencies.Count() == 0 {
		return 0, 0
	}
	ps := r.latencies.Percentiles([]float64{0.5, 0.99})
	return time.Duration(ps[0]), time.Duration(ps[1])
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(w io.Writer, test string, r result) {
	if r.bench.NsPerOp() == 0 {
		fmt.Fprintf(w, "%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(r.bench.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)
	p50, p99 := percentiles(r)

	// Print the formatted result
	fmt.Fprintf(w, "%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50 %s\tp99 %s", test, nsPerOp, time.Duration(nsPerOp), opsPerSec, p50, p99)
	if r.errors > 0 {
		fmt.Fprintf(w, "\t%d errors", r.errors)
	}
	fmt.Fprintln(w)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, names []string, results map[string]result, opts serializer.Options) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	if err := writeResults(file, names, results, opts); err != nil {
		return err
	}
	return file.Close()
}

// writeResults writes benchmark results as CSV to w
func writeResults(w io.Writer, names []string, results map[string]result, opts serializer.Options) error {
	writer := csv.NewWriter(w)

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "P50Ns", "P99Ns", "Errors", "Skipped",
		"Source", "Space", "IsJSON", "IgnoreFunction", "Unsafe",
		"Threads", "Size",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for _, test := range names {
		r := results[test]

		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if r.bench.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(r.bench.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}
		p50, p99 := percentiles(r)

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatInt(int64(p50), 10),
			strconv.FormatInt(int64(p99), 10),
			strconv.FormatInt(r.errors, 10),
			skipped,
			viper.GetString("source"),
			strconv.Quote(opts.Space),
			strconv.FormatBool(opts.IsJSON),
			strconv.FormatBool(opts.IgnoreFunction),
			strconv.FormatBool(opts.Unsafe),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfSize),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %v", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
