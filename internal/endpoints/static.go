package endpoints

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/tkjaer/regping/internal/shared"
	"gopkg.in/yaml.v3"
)

//go:embed static_endpoints.yaml
var staticEndpointsYAML []byte

type staticFile struct {
	Endpoints []shared.Endpoint `yaml:"endpoints"`
}

// StaticSource serves the endpoint list compiled into the binary
type StaticSource struct {
	data []byte
}

// NewStaticSource returns the built-in region list
func NewStaticSource() StaticSource {
	return StaticSource{data: staticEndpointsYAML}
}

func (s StaticSource) Endpoints(ctx context.Context) ([]shared.Endpoint, error) {
	return parseStatic(s.data)
}

func parseStatic(data []byte) ([]shared.Endpoint, error) {
	var f staticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing built-in endpoint list: %w", err)
	}
	return validate(f.Endpoints)
}
