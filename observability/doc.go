// Package observability wires OpenTelemetry tracing and metrics into
// reqkit exchanges.
//
// Without InitTracer/InitMeter the global no-op providers are used, so
// instrumentation costs nothing until a provider is installed.
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("reqkit"))
//	defer tp.Shutdown(ctx)
//
//	metrics, err := observability.NewClientMetrics(observability.Meter())
//	ctx, ex := observability.StartExchange(ctx, metrics, "nethttp", "GET", url)
//	ex.Succeed(ctx, 200, "application/json")
package observability
