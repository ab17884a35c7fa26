package endpoints

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/tkjaer/regping/internal/shared"
	"github.com/tkjaer/regping/internal/version"
)

// DefaultAPIRegion is used for the DescribeRegions call when no region is configured
const DefaultAPIRegion = "us-east-1"

// RegionDescriber is the subset of the EC2 client used to list regions
type RegionDescriber interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

// EC2Source lists regions and their EC2 endpoints through DescribeRegions
type EC2Source struct {
	client     RegionDescriber
	allRegions bool
}

// NewEC2Source builds a source from the default AWS configuration chain.
// apiRegion overrides the configured region for the API call itself.
func NewEC2Source(ctx context.Context, apiRegion string, allRegions bool) (*EC2Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithAppID(version.AppID()),
	}
	if apiRegion != "" {
		opts = append(opts, awsconfig.WithRegion(apiRegion))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultAPIRegion
	}
	return NewEC2SourceWithClient(ec2.NewFromConfig(cfg), allRegions), nil
}

// NewEC2SourceWithClient wraps an existing client
func NewEC2SourceWithClient(client RegionDescriber, allRegions bool) *EC2Source {
	return &EC2Source{client: client, allRegions: allRegions}
}

func (s *EC2Source) Endpoints(ctx context.Context) ([]shared.Endpoint, error) {
	out, err := s.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(s.allRegions),
	})
	if err != nil {
		return nil, fmt.Errorf("describing regions: %w", err)
	}

	eps := make([]shared.Endpoint, 0, len(out.Regions))
	for _, r := range out.Regions {
		eps = append(eps, shared.Endpoint{
			Name: aws.ToString(r.RegionName),
			Host: aws.ToString(r.Endpoint),
		})
	}
	return validate(eps)
}
