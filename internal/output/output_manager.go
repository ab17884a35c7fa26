package output

import (
	"errors"

	"github.com/tkjaer/regping/internal/shared"
)

// Output interface for different output types
type Output interface {
	WriteSummaries(summaries map[string]shared.Summary) error
	Close() error
}

// OutputManager manages multiple outputs
type OutputManager struct {
	outputs []Output
}

func (om *OutputManager) Register(o Output) {
	om.outputs = append(om.outputs, o)
}

// WriteSummaries hands the summaries to every output, even if one fails
func (om *OutputManager) WriteSummaries(summaries map[string]shared.Summary) error {
	var errs []error
	for _, o := range om.outputs {
		if err := o.WriteSummaries(summaries); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (om *OutputManager) Close() error {
	var errs []error
	for _, o := range om.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
