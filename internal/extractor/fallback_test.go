package extractor_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aforo/internal/domain"
	"aforo/internal/extractor"
	"aforo/internal/port"
)

type stubExtractor struct {
	out   *port.ExtractOutput
	err   error
	calls int
}

func (s *stubExtractor) Extract(_ context.Context, _ port.ExtractInput) (*port.ExtractOutput, error) {
	s.calls++
	return s.out, s.err
}

func stubOutput(model string) *port.ExtractOutput {
	return &port.ExtractOutput{
		StructuredData: json.RawMessage(`{"bl_number":"MSCU1234"}`),
		ModelUsed:      model,
	}
}

func extractInput() port.ExtractInput {
	return port.ExtractInput{
		FileBytes:   []byte("test"),
		ContentType: "application/pdf",
		Kind:        domain.DocumentKindBillOfLading,
	}
}

func TestFallbackExtractor_FirstSucceeds(t *testing.T) {
	e1 := &stubExtractor{out: stubOutput("gemini")}
	e2 := &stubExtractor{out: stubOutput("backup")}

	fe := extractor.NewFallbackExtractor(
		[]port.Extractor{e1, e2},
		[]string{"gemini", "backup"},
	)

	result, err := fe.Extract(context.Background(), extractInput())

	require.NoError(t, err)
	assert.Equal(t, "gemini", result.ModelUsed)
	assert.Equal(t, 0, e2.calls)
}

func TestFallbackExtractor_FirstFails_SecondSucceeds(t *testing.T) {
	e1 := &stubExtractor{err: errors.New("generic error")}
	e2 := &stubExtractor{out: stubOutput("backup")}

	fe := extractor.NewFallbackExtractor(
		[]port.Extractor{e1, e2},
		[]string{"gemini", "backup"},
	)

	result, err := fe.Extract(context.Background(), extractInput())

	require.NoError(t, err)
	assert.Equal(t, "backup", result.ModelUsed)
}

func TestFallbackExtractor_RateLimitOpensCircuit(t *testing.T) {
	e1 := &stubExtractor{err: extractor.NewRateLimitError("gemini", errors.New("429"), 60)}
	e2 := &stubExtractor{out: stubOutput("backup")}

	fe := extractor.NewFallbackExtractor(
		[]port.Extractor{e1, e2},
		[]string{"gemini", "backup"},
	)

	_, err := fe.Extract(context.Background(), extractInput())
	require.NoError(t, err)
	assert.Equal(t, 1, e1.calls)

	// Second call skips the rate-limited provider entirely.
	_, err = fe.Extract(context.Background(), extractInput())
	require.NoError(t, err)
	assert.Equal(t, 1, e1.calls)
	assert.Equal(t, 2, e2.calls)
}

func TestFallbackExtractor_AllFail(t *testing.T) {
	e1 := &stubExtractor{err: errors.New("boom")}
	e2 := &stubExtractor{err: errors.New("bang")}

	fe := extractor.NewFallbackExtractor(
		[]port.Extractor{e1, e2},
		[]string{"gemini", "backup"},
	)

	result, err := fe.Extract(context.Background(), extractInput())

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "all extractors failed")
}

func TestFallbackExtractor_AllRateLimited(t *testing.T) {
	e1 := &stubExtractor{err: extractor.NewRateLimitError("gemini", errors.New("429"), 30)}
	e2 := &stubExtractor{err: extractor.NewRateLimitError("backup", errors.New("429"), 90)}

	fe := extractor.NewFallbackExtractor(
		[]port.Extractor{e1, e2},
		[]string{"gemini", "backup"},
	)

	_, err := fe.Extract(context.Background(), extractInput())

	var rlErr *extractor.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "all", rlErr.Provider)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 30, extractor.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader("Wed, 21 Oct 2025 07:28:00 GMT"))
}
