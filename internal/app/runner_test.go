package app

import (
	"context"
	"testing"
	"time"

	"github.com/marshallshelly/pebble-bookshop/pkg/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachable() *runtime.Config {
	return &runtime.Config{Host: "127.0.0.1", Port: 1, Database: "none", User: "none", SSLMode: "disable"}
}

func TestRunner_LoadMissingFixture(t *testing.T) {
	r := &Runner{Config: unreachable(), FixturePath: "testdata/missing.json"}

	_, err := r.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read fixture")
}

func TestRunner_ConnectionFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r := &Runner{Config: unreachable(), FixturePath: "../../fixtures/tests_data.json"}

	_, err := r.Load(ctx)
	assert.ErrorContains(t, err, "failed to connect to database")

	_, err = r.Purchases(ctx, "Питер")
	assert.ErrorContains(t, err, "failed to connect to database")
}
