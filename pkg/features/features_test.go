package features

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueClaimsNothing(t *testing.T) {
	var f Features
	assert.False(t, f.MergeQueue)
	assert.False(t, f.ProjectsV2)
	assert.False(t, f.Autolinks)
}

func TestAll(t *testing.T) {
	f := All()
	assert.True(t, f.MergeQueue)
	assert.True(t, f.ProjectsV2)
	assert.True(t, f.Autolinks)
}

func TestStubDetector(t *testing.T) {
	d := StubDetector{Features: Features{ProjectsV2: true}}
	f, err := d.Detect(context.Background(), "example.com")
	require.NoError(t, err)
	assert.True(t, f.ProjectsV2)
	assert.False(t, f.MergeQueue)

	failing := StubDetector{Err: errors.New("probe failed")}
	_, err = failing.Detect(context.Background(), "example.com")
	require.Error(t, err)
}

func TestFuncDetector(t *testing.T) {
	var seenHost string
	d := FuncDetector(func(_ context.Context, hostname string) (Features, error) {
		seenHost = hostname
		return All(), nil
	})
	f, err := d.Detect(context.Background(), "ghe.example.com")
	require.NoError(t, err)
	assert.Equal(t, All(), f)
	assert.Equal(t, "ghe.example.com", seenHost)
}
