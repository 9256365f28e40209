package logging

import (
	"context"
	"testing"

	"github.com/fyrsmithlabs/docforge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewRedactingEncoder_InvalidPattern(t *testing.T) {
	_, err := NewRedactingEncoder(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		RedactionConfig{Enabled: true, Patterns: []string{"([invalid"}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redaction pattern")
}

func TestNewRedactingEncoder_PatternTooLong(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	_, err := NewRedactingEncoder(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		RedactionConfig{Enabled: true, Patterns: []string{string(long)}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too long")
}

func TestRedactingEncoder_FieldNames(t *testing.T) {
	cfg := RedactionConfig{
		Enabled: true,
		Fields:  []string{"api_key", "password"},
	}
	enc, err := NewRedactingEncoder(zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey: "msg", LevelKey: "level", EncodeLevel: zapcore.LowercaseLevelEncoder,
	}), cfg)
	require.NoError(t, err)

	enc.AddString("api_key", "sk-live-123")
	enc.AddString("normal", "visible")

	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "test"}, nil)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "sk-live-123")
	assert.Contains(t, out, "visible")
}

func TestRedactingEncoder_CaseInsensitiveKeys(t *testing.T) {
	cfg := RedactionConfig{Enabled: true, Fields: []string{"token"}}
	enc, err := NewRedactingEncoder(zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
	}), cfg)
	require.NoError(t, err)

	enc.AddString("TOKEN", "abc123")

	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "test"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "abc123")
}

func TestRedactingEncoder_ValuePatterns(t *testing.T) {
	cfg := RedactionConfig{
		Enabled:  true,
		Patterns: []string{`(?i)bearer\s+\S+`},
	}
	enc, err := NewRedactingEncoder(zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
	}), cfg)
	require.NoError(t, err)

	enc.AddString("header", "Bearer eyJhbGciOi")

	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "test"}, nil)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "[REDACTED:pattern]")
	assert.NotContains(t, out, "eyJhbGciOi")
}

func TestRedactingEncoder_DisabledPassesThrough(t *testing.T) {
	enc, err := NewRedactingEncoder(zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
	}), RedactionConfig{Enabled: false})
	require.NoError(t, err)

	enc.AddString("api_key", "sk-live-123")

	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "test"}, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sk-live-123")
}

func TestRedactingEncoder_Clone(t *testing.T) {
	cfg := RedactionConfig{Enabled: true, Fields: []string{"secret"}}
	enc, err := NewRedactingEncoder(zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey: "msg",
	}), cfg)
	require.NoError(t, err)

	clone, ok := enc.Clone().(*RedactingEncoder)
	require.True(t, ok, "Clone must preserve the redacting wrapper")

	clone.AddString("secret", "hidden-value")
	buf, err := clone.EncodeEntry(zapcore.Entry{Message: "test"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "hidden-value")
}

func TestSecretField(t *testing.T) {
	tl := NewTestLogger()

	key := config.Secret("sk-ant-verylongapikey")
	tl.Info(context.Background(), "provider ready", Secret("api_key", key))

	entries := tl.All()
	require.Len(t, entries, 1)
	tl.AssertNoSecrets(t)
}

func TestRedactedString(t *testing.T) {
	f := RedactedString("authorization", "Bearer abc")
	assert.Equal(t, "authorization", f.Key)
	assert.Contains(t, f.String, "[REDACTED:")
	assert.NotContains(t, f.String, "Bearer")
}
