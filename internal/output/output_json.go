package output

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/tkjaer/regping/internal/shared"
	"golang.org/x/term"
)

// JSONOutput writes the summaries as one JSON object keyed by endpoint name.
// encoding/json sorts map keys, so the output is stable between runs.
type JSONOutput struct {
	mu       sync.Mutex
	file     *os.File
	enc      *json.Encoder
	toStdout bool
}

func NewJSONOutput(filename string) (*JSONOutput, error) {
	if filename == "" {
		// Output to stdout
		enc := json.NewEncoder(os.Stdout)
		if term.IsTerminal(int(os.Stdout.Fd())) {
			enc.SetIndent("", "  ")
		}
		return &JSONOutput{
			file:     os.Stdout,
			enc:      enc,
			toStdout: true,
		}, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONOutput{
		file:     f,
		enc:      json.NewEncoder(f),
		toStdout: false,
	}, nil
}

func (j *JSONOutput) WriteSummaries(summaries map[string]shared.Summary) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if summaries == nil {
		summaries = map[string]shared.Summary{}
	}
	return j.enc.Encode(summaries)
}

func (j *JSONOutput) Close() error {
	if j.toStdout {
		return nil
	}
	return j.file.Close()
}
