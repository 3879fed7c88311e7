package otel

import (
	"context"
	"parking/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"google.golang.org/grpc/credentials/insecure"
)

// Otel opens spans. Every layer takes one so that a request can be followed from handler to
// repository and on into the reconciler.
type Otel interface {
	NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope)
}

type otelImpl struct {
	TracerProvider *trace.TracerProvider
}

func (o *otelImpl) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope) {
	ctx, span := o.TracerProvider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, NewScope(span)
}

// Resource describes this service on every exported span.
func Resource(cfg *config.Config) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.App.Name),
		semconv.DeploymentEnvironmentKey.String(cfg.Server.Env),
	)
}

// New exports spans over OTLP gRPC. Without an endpoint spans are still created, so trace ids
// propagate, but nothing leaves the process.
func New(cfg *config.Config) Otel {
	opts := []trace.TracerProviderOption{trace.WithResource(Resource(cfg))}

	endpoint := cfg.External.Otel.Endpoint
	if endpoint == "" {
		log.Warn().Msg("no otel endpoint configured, spans will not be exported")
	} else {
		exporter, err := otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			log.Fatal().Err(err).Str("endpoint", endpoint).Msg("failed to create OTLP exporter")
		}

		opts = append(opts, trace.WithBatcher(exporter))
	}

	provider := trace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)

	return &otelImpl{
		TracerProvider: provider,
	}
}
