package shared

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"
)

// Endpoint is a named host to probe, e.g. an AWS region and its service endpoint.
type Endpoint struct {
	Name string `json:"name" yaml:"name"`
	Host string `json:"host" yaml:"host"`
}

// TrialOutcome is the result of one connection attempt.
// Err is nil when the connection succeeded; Elapsed is always set.
type TrialOutcome struct {
	Elapsed time.Duration
	Err     error
}

// Succeeded reports whether the trial connected.
func (o TrialOutcome) Succeeded() bool {
	return o.Err == nil
}

// ResultSet holds the outcomes of all trials against one endpoint, in trial order.
type ResultSet []TrialOutcome

// Successes returns the elapsed durations of the successful trials.
func (rs ResultSet) Successes() []time.Duration {
	durations := make([]time.Duration, 0, len(rs))
	for _, o := range rs {
		if o.Succeeded() {
			durations = append(durations, o.Elapsed)
		}
	}
	return durations
}

// Errors returns the number of failed trials.
func (rs ResultSet) Errors() int {
	n := 0
	for _, o := range rs {
		if !o.Succeeded() {
			n++
		}
	}
	return n
}

// ResultsTable maps endpoint name to its result set.
type ResultsTable map[string]ResultSet

// Names returns the endpoint names in lexicographic order.
func (t ResultsTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// EstimateMode selects how a measured connect time is turned into a latency figure.
type EstimateMode string

const (
	// RoundTrip reports the connect time as measured.
	RoundTrip EstimateMode = "round-trip"
	// OneWay halves the connect time as an estimate of one-way latency.
	OneWay EstimateMode = "one-way"
)

// ParseEstimateMode validates an estimate mode name.
func ParseEstimateMode(s string) (EstimateMode, error) {
	switch m := EstimateMode(s); m {
	case RoundTrip, OneWay:
		return m, nil
	default:
		return "", fmt.Errorf("estimate must be either '%s' or '%s'", RoundTrip, OneWay)
	}
}

// Apply converts a measured connect time according to the mode.
func (m EstimateMode) Apply(d time.Duration) time.Duration {
	if m == OneWay {
		return d / 2
	}
	return d
}

// Seconds is a latency that marshals to JSON as fractional seconds.
type Seconds time.Duration

// NewSeconds returns a pointer suitable for an optional Summary field.
func NewSeconds(d time.Duration) *Seconds {
	s := Seconds(d)
	return &s
}

// Duration returns s as a time.Duration.
func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}

func (s Seconds) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, time.Duration(s).Seconds(), 'f', -1, 64), nil
}

func (s *Seconds) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid seconds value %q: %w", data, err)
	}
	*s = Seconds(math.Round(f * float64(time.Second)))
	return nil
}

// Summary holds per-endpoint statistics over the successful trials.
// The latency fields are nil when no trial succeeded.
type Summary struct {
	Count  int      `json:"count"`
	Errors int      `json:"errors"`
	Min    *Seconds `json:"min"`
	Max    *Seconds `json:"max"`
	Mean   *Seconds `json:"mean"`
	Median *Seconds `json:"median"`
	Stdev  *Seconds `json:"stdev"`
}

// Successes returns the number of trials that connected.
func (s Summary) Successes() int {
	return s.Count - s.Errors
}

// HasLatency reports whether the latency statistics are defined.
func (s Summary) HasLatency() bool {
	return s.Min != nil
}
