package endpoints

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tkjaer/regping/internal/shared"
)

// ErrNoEndpoints is returned when a source produced an empty list
var ErrNoEndpoints = errors.New("no endpoints")

// Source supplies the endpoints to probe
type Source interface {
	Endpoints(ctx context.Context) ([]shared.Endpoint, error)
}

// FallbackSource queries Primary and falls back to Fallback on any error
type FallbackSource struct {
	Primary  Source
	Fallback Source
}

func (f FallbackSource) Endpoints(ctx context.Context) ([]shared.Endpoint, error) {
	eps, err := f.Primary.Endpoints(ctx)
	if err == nil {
		slog.Debug("Fetched endpoint list", "endpoints", len(eps))
		return eps, nil
	}
	slog.Warn("Could not fetch endpoint list, using built-in list", "error", err)
	return f.Fallback.Endpoints(ctx)
}

// Filter keeps the endpoints named in include. An empty include keeps all.
// Names that match nothing are an error.
func Filter(eps []shared.Endpoint, include []string) ([]shared.Endpoint, error) {
	if len(include) == 0 {
		return eps, nil
	}

	wanted := make(map[string]bool, len(include))
	for _, name := range include {
		if name = strings.TrimSpace(name); name != "" {
			wanted[name] = false
		}
	}

	var out []shared.Endpoint
	for _, ep := range eps {
		if _, ok := wanted[ep.Name]; ok {
			wanted[ep.Name] = true
			out = append(out, ep)
		}
	}

	var unknown []string
	for name, found := range wanted {
		if !found {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, fmt.Errorf("unknown endpoint(s): %s", strings.Join(unknown, ", "))
	}
	if len(out) == 0 {
		return nil, ErrNoEndpoints
	}
	return out, nil
}

// validate drops incomplete entries and sorts by name
func validate(eps []shared.Endpoint) ([]shared.Endpoint, error) {
	out := make([]shared.Endpoint, 0, len(eps))
	for _, ep := range eps {
		if ep.Name == "" || ep.Host == "" {
			slog.Debug("Skipping incomplete endpoint", "name", ep.Name, "host", ep.Host)
			continue
		}
		out = append(out, ep)
	}
	if len(out) == 0 {
		return nil, ErrNoEndpoints
	}
	slices.SortFunc(out, func(a, b shared.Endpoint) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}
