package server

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// apiMetrics holds the API's OpenTelemetry counters. Without a metrics
// SDK installed these are no-ops.
type apiMetrics struct {
	escalations  metric.Int64Counter
	answers      metric.Int64Counter
	chatTurns    metric.Int64Counter
	weatherCalls metric.Int64Counter
}

func newAPIMetrics() *apiMetrics {
	meter := otel.Meter("krishimitra/api")

	counter := func(name, description string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(description))
		if err != nil {
			log.Warn().Err(err).Str("counter", name).Msg("Failed to create metric counter")
		}
		return c
	}

	return &apiMetrics{
		escalations:  counter("escalations_total", "Questions escalated to officers"),
		answers:      counter("answers_total", "Officer answers submitted"),
		chatTurns:    counter("chat_turns_total", "Chat turns served, by source"),
		weatherCalls: counter("weather_calls_total", "Weather lookups, by endpoint"),
	}
}

func (m *apiMetrics) countChatTurn(ctx context.Context, source string) {
	if m.chatTurns != nil {
		m.chatTurns.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
	}
}

func (m *apiMetrics) countWeatherCall(ctx context.Context, endpoint string) {
	if m.weatherCalls != nil {
		m.weatherCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
	}
}

func (m *apiMetrics) countEscalation(ctx context.Context) {
	if m.escalations != nil {
		m.escalations.Add(ctx, 1)
	}
}

func (m *apiMetrics) countAnswer(ctx context.Context) {
	if m.answers != nil {
		m.answers.Add(ctx, 1)
	}
}
