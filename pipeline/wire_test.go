package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDepsClose_LogsFailuresAndKeepsGoing(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var order []string
	d := &Deps{logger: zap.New(core), closers: []func() error{
		func() error { order = append(order, "redis"); return nil },
		func() error { order = append(order, "mongo"); return errors.New("connection reset") },
		func() error { order = append(order, "gemini"); return nil },
	}}

	d.Close()

	assert.Equal(t, []string{"gemini", "mongo", "redis"}, order)
	entries := logs.FilterMessage("failed to release dependency").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "connection reset", entries[0].ContextMap()["error"])
}
