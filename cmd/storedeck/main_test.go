package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/raushankrgupta/storedeck/config"
	"github.com/raushankrgupta/storedeck/models"
	"github.com/raushankrgupta/storedeck/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRunner struct {
	res *pipeline.Result
	err error
	req pipeline.Request
}

func (f *fakeRunner) Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	f.req = req
	return f.res, f.err
}

// useRunner swaps the wired pipeline for r until the test ends and reports
// whether the release func ran.
func useRunner(t *testing.T, r deckRunner, wireErr error) *bool {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	released := false
	orig := newRunner
	newRunner = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (deckRunner, func(), error) {
		if wireErr != nil {
			return nil, nil, wireErr
		}
		return r, func() { released = true }, nil
	}
	t.Cleanup(func() { newRunner = orig })
	return &released
}

func TestRun_MissingArguments(t *testing.T) {
	assert.Equal(t, 1, run(nil))
	assert.Equal(t, 1, run([]string{"nala.ro"}))
	assert.Equal(t, 1, run([]string{"", "buyer@example.com"}))
}

func TestRun_InsufficientProductsExitsWithFailure(t *testing.T) {
	r := &fakeRunner{err: fmt.Errorf("%w: found 3 of 5", pipeline.ErrInsufficientProducts)}
	released := useRunner(t, r, nil)

	assert.Equal(t, 1, run([]string{"nala.ro", "buyer@example.com"}))
	assert.Equal(t, pipeline.Request{StoreURL: "nala.ro", ToEmail: "buyer@example.com"}, r.req)
	assert.True(t, *released)
}

func TestRun_Success(t *testing.T) {
	r := &fakeRunner{res: &pipeline.Result{
		Path:   "output/nala_ro_deck.pdf",
		Record: &models.RunRecord{DeliveryNotes: []string{"s3: https://example.com/deck.pdf"}},
	}}
	released := useRunner(t, r, nil)

	assert.Equal(t, 0, run([]string{"nala.ro", "buyer@example.com"}))
	assert.True(t, *released)
}

func TestRun_WiringFailure(t *testing.T) {
	useRunner(t, nil, errors.New("templates missing"))
	require.Equal(t, 1, run([]string{"nala.ro", "buyer@example.com"}))
}
