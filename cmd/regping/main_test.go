package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tkjaer/regping/internal/config"
	"github.com/tkjaer/regping/internal/endpoints"
	"github.com/tkjaer/regping/internal/output"
	"github.com/tkjaer/regping/internal/probe"
	"github.com/tkjaer/regping/internal/shared"
)

// fixedSampler connects instantly with a constant latency
type fixedSampler struct {
	elapsed time.Duration
}

func (s fixedSampler) Sample(ctx context.Context, host string) shared.TrialOutcome {
	return shared.TrialOutcome{Elapsed: s.elapsed}
}

// listSource returns a fixed endpoint list
type listSource []shared.Endpoint

func (l listSource) Endpoints(ctx context.Context) ([]shared.Endpoint, error) {
	return l, nil
}

// brokenSource simulates an unreachable directory service
type brokenSource struct{}

func (brokenSource) Endpoints(ctx context.Context) ([]shared.Endpoint, error) {
	return nil, errors.New("dial tcp: lookup ec2.us-east-1.amazonaws.com: no such host")
}

func testArgs(trials uint) config.Args {
	return config.Args{
		PingsPerRegion: trials,
		Port:           80,
		Timeout:        time.Second,
		Estimate:       string(shared.RoundTrip),
		SourceTimeout:  time.Second,
	}
}

// runToFile runs one cycle with the JSON summary written to a temp file
func runToFile(t *testing.T, ctx context.Context, args config.Args, src endpoints.Source, pm *probe.ProbeManager) (string, error) {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "summary.json")
	jsonOut, err := output.NewJSONOutput(filename)
	if err != nil {
		t.Fatalf("NewJSONOutput() error = %v", err)
	}
	om := &output.OutputManager{}
	om.Register(jsonOut)

	runErr := run(ctx, args, src, pm, om)
	om.Close()

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return string(data), runErr
}

func TestRun_Deterministic(t *testing.T) {
	src := listSource{{Name: "b", Host: "host-b"}, {Name: "a", Host: "host-a"}}
	pm := probe.NewProbeManagerWithSampler(3, fixedSampler{elapsed: 10 * time.Millisecond})

	got, err := runToFile(t, context.Background(), testArgs(3), src, pm)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	want := `{"a":{"count":3,"errors":0,"min":0.01,"max":0.01,"mean":0.01,"median":0.01,"stdev":0},` +
		`"b":{"count":3,"errors":0,"min":0.01,"max":0.01,"mean":0.01,"median":0.01,"stdev":0}}` + "\n"
	if got != want {
		t.Errorf("output = %s, want %s", got, want)
	}
}

func TestRun_OneWayEstimate(t *testing.T) {
	args := testArgs(2)
	args.Estimate = string(shared.OneWay)
	src := listSource{{Name: "a", Host: "host-a"}}
	pm := probe.NewProbeManagerWithSampler(2, fixedSampler{elapsed: 10 * time.Millisecond})

	got, err := runToFile(t, context.Background(), args, src, pm)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(got, `"min":0.005`) {
		t.Errorf("output = %s, want halved latencies", got)
	}
}

func TestRun_FallbackList(t *testing.T) {
	src := endpoints.FallbackSource{Primary: brokenSource{}, Fallback: endpoints.NewStaticSource()}
	pm := probe.NewProbeManagerWithSampler(2, fixedSampler{elapsed: time.Millisecond})

	got, err := runToFile(t, context.Background(), testArgs(2), src, pm)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var summaries map[string]shared.Summary
	if err := json.Unmarshal([]byte(got), &summaries); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	fallback, _ := endpoints.NewStaticSource().Endpoints(context.Background())
	if len(fallback) == 0 {
		t.Fatal("built-in endpoint list is empty")
	}
	if len(summaries) != len(fallback) {
		t.Errorf("got %d summaries, want %d", len(summaries), len(fallback))
	}
	for _, ep := range fallback {
		if s, ok := summaries[ep.Name]; !ok || s.Count != 2 {
			t.Errorf("summary for %s = %+v, want count 2", ep.Name, s)
		}
	}
}

func TestRun_Include(t *testing.T) {
	args := testArgs(1)
	args.Include = []string{"eu-west-1"}
	pm := probe.NewProbeManagerWithSampler(1, fixedSampler{elapsed: time.Millisecond})

	got, err := runToFile(t, context.Background(), args, endpoints.NewStaticSource(), pm)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.HasPrefix(got, `{"eu-west-1":`) || strings.Count(got, `"count"`) != 1 {
		t.Errorf("output = %s, want only eu-west-1", got)
	}
}

func TestRun_UnknownInclude(t *testing.T) {
	args := testArgs(1)
	args.Include = []string{"atlantis-1"}
	pm := probe.NewProbeManagerWithSampler(1, fixedSampler{})

	got, err := runToFile(t, context.Background(), args, endpoints.NewStaticSource(), pm)
	if err == nil || !strings.Contains(err.Error(), "atlantis-1") {
		t.Errorf("run() error = %v, want unknown endpoint error", err)
	}
	if got != "" {
		t.Errorf("output = %q, want nothing on error", got)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pm := probe.NewProbeManagerWithSampler(1, fixedSampler{})

	got, err := runToFile(t, ctx, testArgs(1), listSource{{Name: "a", Host: "host-a"}}, pm)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("run() error = %v, want context.Canceled", err)
	}
	if got != "" {
		t.Errorf("output = %q, want no partial results", got)
	}
}

func TestNewSource_Static(t *testing.T) {
	args := testArgs(1)
	args.Static = true
	if _, ok := newSource(context.Background(), args).(endpoints.StaticSource); !ok {
		t.Error("newSource() with --static should return the built-in list")
	}
}

func TestCreateOutputs(t *testing.T) {
	args := testArgs(1)
	args.MetricsFile = filepath.Join(t.TempDir(), "regping.prom")

	om, err := createOutputs(args)
	if err != nil {
		t.Fatalf("createOutputs() error = %v", err)
	}
	defer om.Close()

	// Writes the JSON summary to stdout as well; only the metrics file is checked
	if err := om.WriteSummaries(map[string]shared.Summary{"a": {Count: 1, Errors: 1}}); err != nil {
		t.Fatalf("WriteSummaries() error = %v", err)
	}
	if _, err := os.Stat(args.MetricsFile); err != nil {
		t.Errorf("metrics file not written: %v", err)
	}
}
