package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/tkjaer/regping/internal/shared"
	"github.com/tkjaer/regping/internal/version"
)

type Args struct {
	PingsPerRegion uint
	Verbose        bool

	// Probing
	Port      uint
	Timeout   time.Duration
	Estimate  string
	ForceIPv4 bool
	ForceIPv6 bool
	CacheDNS  bool

	// Endpoint source
	Static        bool
	AllRegions    bool
	AWSRegion     string
	SourceTimeout time.Duration
	Include       []string

	// Output
	MetricsFile string // Prometheus textfile written alongside the JSON summary

	// Logging
	Log       string // log file path, empty means stderr only
	LogLevel  string // log level: debug, info, warn, error
	LogFormat string // log format: text, json
}

func ParseArgs() (Args, error) {
	var args Args
	var showVersion bool

	// Set custom usage message
	flag.Usage = func() {
		println("regping - TCP connect latency to AWS regions")
		println()
		println("Opens TCP connections to the service endpoint of every region and")
		println("prints min/max/mean/median/stdev per region as JSON.")
		println()
		println("Usage:")
		println("  regping --pings-per-region N [OPTIONS]")
		println()
		println("Examples:")
		println("  regping -c 5                           # 5 connections per region")
		println("  regping -c 10 --estimate one-way       # halve connect times")
		println("  regping -c 3 --static -i us-east-1     # offline list, one region")
		println("  regping -c 5 --metrics-file out.prom   # also write Prometheus textfile")
		println()
		println("Options:")
		flag.PrintDefaults()
	}

	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.UintVarP(&args.PingsPerRegion, "pings-per-region", "c", 0, "Number of times to complete a TCP handshake with each region (required)")
	flag.BoolVarP(&args.Verbose, "verbose", "V", false, "Print information about pings for each region to stderr")

	flag.UintVarP(&args.Port, "port", "p", 80, "Destination TCP port")
	flag.DurationVarP(&args.Timeout, "timeout", "t", 1*time.Second, "Connect timeout per ping")
	flag.StringVar(&args.Estimate, "estimate", string(shared.RoundTrip), "Latency estimate: round-trip or one-way (halved)")
	flag.BoolVarP(&args.ForceIPv4, "ipv4", "4", false, "Force IPv4")
	flag.BoolVarP(&args.ForceIPv6, "ipv6", "6", false, "Force IPv6")
	flag.BoolVar(&args.CacheDNS, "cache-dns", false, "Resolve each endpoint once and exclude DNS lookups from timings")

	flag.BoolVar(&args.Static, "static", false, "Use the built-in region list instead of querying EC2")
	flag.BoolVar(&args.AllRegions, "all-regions", false, "Include regions not enabled for the account")
	flag.StringVar(&args.AWSRegion, "aws-region", "", "Region used for the DescribeRegions call (default from AWS config, else us-east-1)")
	flag.DurationVar(&args.SourceTimeout, "source-timeout", 10*time.Second, "Timeout for fetching the region list")
	flag.StringSliceVarP(&args.Include, "include", "i", nil, "Only ping these regions (comma separated or repeated)")

	flag.StringVar(&args.MetricsFile, "metrics-file", "", "Also write summaries to this file in Prometheus text format")

	flag.StringVarP(&args.Log, "log", "l", "", "Also write diagnostics to this file (rotated)")
	flag.StringVar(&args.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.StringVar(&args.LogFormat, "log-format", "text", "Log format: text or json")
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		return args, err
	}

	// Handle version flag
	if showVersion {
		fmt.Println(version.FullVersion())
		os.Exit(0)
	}

	switch {
	case flag.NArg() > 0:
		return args, fmt.Errorf("unexpected argument %q", flag.Arg(0))
	case args.PingsPerRegion == 0:
		return args, errors.New("--pings-per-region is required and must be a positive integer")
	case args.Port == 0 || args.Port > 65535:
		return args, errors.New("port must be between 1 and 65535")
	case args.Timeout <= 0:
		return args, errors.New("timeout must be positive")
	case args.SourceTimeout <= 0:
		return args, errors.New("source timeout must be positive")
	case args.ForceIPv4 && args.ForceIPv6:
		return args, errors.New("cannot force both IPv4 and IPv6")
	case args.LogFormat != "text" && args.LogFormat != "json":
		return args, errors.New("log format must be either 'text' or 'json'")
	}
	if _, err := shared.ParseEstimateMode(args.Estimate); err != nil {
		return args, err
	}

	if args.Verbose {
		args.LogLevel = "debug"
	}

	return args, nil
}

// EstimateMode returns the validated latency estimate mode
func (a Args) EstimateMode() shared.EstimateMode {
	if mode, err := shared.ParseEstimateMode(a.Estimate); err == nil {
		return mode
	}
	return shared.RoundTrip
}

// Network returns the dial network based on args
func (a Args) Network() string {
	if a.ForceIPv4 {
		return "tcp4"
	}
	if a.ForceIPv6 {
		return "tcp6"
	}
	return "tcp"
}
