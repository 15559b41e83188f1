package telemetry_test

import (
	"context"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestSetup(t *testing.T) {
	t.Run("Success - No Exporter Still Records Spans", func(t *testing.T) {
		// Arrange
		cfg := config.OtelConfig{ServiceName: "storefront", SamplerRatio: 1}

		// Act
		shutdown, err := telemetry.Setup(t.Context(), cfg, "test")

		// Assert
		require.NoError(t, err)
		t.Cleanup(func() { _ = shutdown(context.Background()) })

		_, span := otel.Tracer("test").Start(t.Context(), "op")
		defer span.End()
		assert.True(t, span.SpanContext().IsValid())
		assert.True(t, span.IsRecording())
	})
}

func TestResource(t *testing.T) {
	res := telemetry.Resource("storefront", "production")

	value, ok := res.Set().Value(attribute.Key("service.name"))
	require.True(t, ok)
	assert.Equal(t, "storefront", value.AsString())
}
