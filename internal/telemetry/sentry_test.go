package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_EmptyDSNIsNoop(t *testing.T) {
	shutdown, err := Init(Config{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	shutdown()
}

func TestDefaultSampleRate(t *testing.T) {
	assert.Equal(t, 1.0, DefaultSampleRate("development"))
	assert.Equal(t, 1.0, DefaultSampleRate(""))
	assert.Equal(t, 0.1, DefaultSampleRate("production"))
}

type ctxKey struct{}

func TestStartSpan_KeepsParentContextValues(t *testing.T) {
	parent := context.WithValue(context.Background(), ctxKey{}, "kept")

	ctx, span := StartSpan(parent, "IngestService.UploadFile", SpanAttributes{Source: "faq.txt", Operation: "upload_file"})
	defer span.End()

	assert.Equal(t, "kept", ctx.Value(ctxKey{}))

	child, childSpan := StartSpan(ctx, "child", SpanAttributes{})
	childSpan.SetError(errors.New("boom"))
	childSpan.End()
	assert.Equal(t, "kept", child.Value(ctxKey{}))
}

func TestHelpersWithoutClient(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		CaptureError(ctx, errors.New("boom"))
		AddBreadcrumb(ctx, "archive", "stored uploads/x/faq.txt")
		(&Span{}).End()
		(&Span{}).SetError(errors.New("boom"))
	})
}

func TestSampleRate(t *testing.T) {
	assert.Equal(t, 0.0, sampleRate(&sentry.Span{Name: "GET /health"}, 0.1))
	assert.Equal(t, 1.0, sampleRate(&sentry.Span{Name: "POST /upload-file/"}, 0.1))
	assert.Equal(t, 1.0, sampleRate(&sentry.Span{Name: "POST /upload-cms"}, 0.1))
	assert.Equal(t, 0.1, sampleRate(&sentry.Span{Name: "POST /ask/"}, 0.1))

	child := &sentry.Span{Name: "GET /health", ParentSpanID: sentry.SpanID{1}, Sampled: sentry.SampledTrue}
	assert.Equal(t, 1.0, sampleRate(child, 0.1))
	child.Sampled = sentry.SampledFalse
	assert.Equal(t, 0.0, sampleRate(child, 0.1))
}
