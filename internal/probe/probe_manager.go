package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tkjaer/regping/internal/config"
	"github.com/tkjaer/regping/internal/shared"
	"github.com/tkjaer/regping/pkg/resolve"
)

// ErrUnitFailed marks an endpoint whose probe goroutine did not finish
var ErrUnitFailed = errors.New("endpoint probe failed")

// unitResult is sent from each probe goroutine to the collector in Run
type unitResult struct {
	name string
	set  shared.ResultSet
	err  error
}

// ProbeManager probes every endpoint in parallel, one goroutine per endpoint,
// with a fixed number of sequential trials in each.
type ProbeManager struct {
	trials  uint
	sampler Sampler
}

// NewProbeManager creates a probe manager from parsed args
func NewProbeManager(a config.Args) *ProbeManager {
	var resolver *resolve.Resolver
	if a.CacheDNS {
		resolver = resolve.NewResolver(lookupNetwork(a.Network()), resolve.DefaultTTL)
	}
	return &ProbeManager{
		trials:  a.PingsPerRegion,
		sampler: NewTCPSampler(a.Network(), uint16(a.Port), a.Timeout, resolver),
	}
}

// NewProbeManagerWithSampler creates a probe manager around an existing sampler
func NewProbeManagerWithSampler(trials uint, s Sampler) *ProbeManager {
	return &ProbeManager{trials: trials, sampler: s}
}

// Run probes all endpoints and blocks until every goroutine has finished.
// Only Run writes to the returned table; goroutines hand their result sets
// over a channel. An endpoint whose goroutine fails is left out of the
// table and reported in the returned error, which wraps ErrUnitFailed.
func (pm *ProbeManager) Run(ctx context.Context, endpoints []shared.Endpoint) (shared.ResultsTable, error) {
	results := make(chan unitResult, len(endpoints))

	var wg sync.WaitGroup
	for _, ep := range endpoints {
		wg.Add(1)
		go func(ep shared.Endpoint) {
			defer wg.Done()
			results <- pm.runUnit(ctx, ep)
		}(ep)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	table := make(shared.ResultsTable, len(endpoints))
	var errs []error
	for r := range results {
		if r.err != nil {
			slog.Warn("Endpoint dropped from results", "endpoint", r.name, "error", r.err)
			errs = append(errs, r.err)
			continue
		}
		if _, exists := table[r.name]; exists {
			slog.Warn("Duplicate endpoint name, replacing earlier results", "endpoint", r.name)
		}
		table[r.name] = r.set
	}

	slog.Debug("All endpoints probed", "endpoints", len(table), "failed", len(errs))
	return table, errors.Join(errs...)
}

// runUnit probes one endpoint, converting a panic into an error result
func (pm *ProbeManager) runUnit(ctx context.Context, ep shared.Endpoint) (res unitResult) {
	defer func() {
		if r := recover(); r != nil {
			res = unitResult{
				name: ep.Name,
				err:  fmt.Errorf("%w: %s: %v", ErrUnitFailed, ep.Name, r),
			}
		}
	}()
	return unitResult{name: ep.Name, set: pm.probeEndpoint(ctx, ep)}
}

// probeEndpoint samples ep pm.trials times, one after another
func (pm *ProbeManager) probeEndpoint(ctx context.Context, ep shared.Endpoint) shared.ResultSet {
	slog.Debug("Pinging endpoint", "endpoint", ep.Name, "host", ep.Host, "count", pm.trials)

	set := make(shared.ResultSet, 0, pm.trials)
	for i := uint(0); i < pm.trials; i++ {
		set = append(set, pm.sampler.Sample(ctx, ep.Host))
	}

	slog.Debug("Endpoint complete", "endpoint", ep.Name, "count", len(set), "errors", set.Errors())
	return set
}

// lookupNetwork maps a dial network to the matching resolver network
func lookupNetwork(network string) string {
	switch network {
	case "tcp4":
		return "ip4"
	case "tcp6":
		return "ip6"
	default:
		return "ip"
	}
}
