package app

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/younsl/idlereport/internal/config"
	"github.com/younsl/idlereport/internal/models"
	"github.com/younsl/idlereport/pkg/aws"
	"github.com/younsl/idlereport/pkg/scanner"
	"github.com/younsl/idlereport/pkg/utils"
)

// BuildOptions adjusts how Build wires an App
type BuildOptions struct {
	// Kinds restricts the scan to these kinds; empty means every registered kind
	Kinds []models.ResourceKind
	// DryRun leaves out every delivery sink
	DryRun bool
}

// Build creates the AWS clients, the registry and the sinks for cfg
func Build(ctx context.Context, cfg *config.Config, opts BuildOptions) (*App, error) {
	awsCfg, err := aws.LoadConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	clients := aws.NewClients(awsCfg)

	registry, err := scanner.DefaultRegistry(clients, cfg.ExtraKinds)
	if err != nil {
		return nil, err
	}
	if len(opts.Kinds) > 0 {
		if registry, err = registry.Select(opts.Kinds); err != nil {
			return nil, err
		}
	}

	zerolog.Ctx(ctx).Info().
		Str("region", cfg.Region).
		Str("region_name", utils.GetRegionDescriptiveName(cfg.Region)).
		Strs("kinds", kindNames(registry.Kinds())).
		Msg("scanner configured")

	coordinator := scanner.New(registry, scanner.Options{
		Concurrency:  cfg.Concurrency,
		ProbeTimeout: cfg.ProbeTimeout,
	})

	if opts.DryRun {
		return New(cfg, coordinator), nil
	}

	return New(cfg, coordinator,
		WithStorage(aws.NewS3Storage(clients.S3)),
		WithNotifier(aws.NewSNSNotifier(clients.SNS)),
		WithMetrics(aws.NewCloudWatchMetrics(clients.CloudWatch)),
	), nil
}

// Response is returned to the scheduled trigger
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// CompletedMessage is the body of every successful invocation
const CompletedMessage = "Execution Completed"

// Success is the response for a completed invocation, however many probes failed
func Success() Response {
	return Response{StatusCode: http.StatusOK, Body: quote(CompletedMessage)}
}

// Fault is the response when the invocation itself could not run
func Fault(err error) Response {
	return Response{StatusCode: http.StatusInternalServerError, Body: quote(err.Error())}
}

// Invoke loads configuration from v, builds the App and runs it once
func Invoke(ctx context.Context, v *viper.Viper) Response {
	logger := zerolog.Ctx(ctx)

	cfg, err := config.Load(v)
	if err != nil {
		logger.Error().Err(err).Msg("configuration error")
		return Fault(err)
	}

	a, err := Build(ctx, cfg, BuildOptions{})
	if err != nil {
		logger.Error().Err(err).Msg("setup failed")
		return Fault(err)
	}

	if _, err := a.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("invocation failed")
		return Fault(err)
	}

	return Success()
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func kindNames(kinds []models.ResourceKind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
