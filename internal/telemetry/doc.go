// Package telemetry sets up OpenTelemetry tracing and metrics for scholard.
//
// Telemetry is off by default. When enabled, spans and metrics are exported
// over OTLP (gRPC or HTTP/protobuf) and the providers are installed as the
// otel globals, so engine services that call otel.Tracer and otel.Meter pick
// them up. Exporter failures degrade telemetry instead of failing startup.
//
//	tel, err := telemetry.New(ctx, telemetry.FromObservability(cfg.Observability, version))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
// Tests use NewTestTelemetry, which records spans and metrics in memory.
package telemetry
