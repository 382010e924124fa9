package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyra-ai/zyra/pkg/logger"
)

type extractorKey struct{}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))
	log.Info("started")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "started", record["msg"])
	assert.Equal(t, "INFO", record["level"])
}

func TestNew_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))
	log.Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNew_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
	log.Info("quiet")
	log.Warn("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestNew_StaticAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "zyra")),
	)
	log.Info("ping")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "zyra", record["service"])
}

func TestNew_ContextExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			v, ok := ctx.Value(extractorKey{}).(string)
			if !ok {
				return slog.Attr{}, false
			}
			return slog.String("plan_tier", v), true
		}),
	)

	log.InfoContext(context.WithValue(context.Background(), extractorKey{}, "growth"), "checked")
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "growth", record["plan_tier"])

	buf.Reset()
	log.Info("no context value")
	record = map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	_, present := record["plan_tier"]
	assert.False(t, present)
}

func TestNew_DevelopmentPreset(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithDevelopment("zyra"), logger.WithOutput(&buf))
	log.Debug("verbose")

	out := buf.String()
	assert.Contains(t, out, "verbose")
	assert.Contains(t, out, "service=zyra")
	assert.False(t, strings.HasPrefix(out, "{"))
}

func TestErrorAttr(t *testing.T) {
	t.Parallel()

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)

	empty := logger.Error(nil)
	assert.Equal(t, slog.Attr{}, empty)
}
