package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/lease-analyzer/constants"
	"github.com/joseph-ayodele/lease-analyzer/internal/common"
)

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("LEASE_CONFIG", "")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DB_URL", filepath.Join(t.TempDir(), "analyses.db"))
	cfg, err := common.LoadConfig()
	require.NoError(t, err)
	return cfg
}

func TestNewWithoutCredentialsFallsBackToKeywords(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Completer)
	require.NotNil(t, a.DB)

	path := filepath.Join(t.TempDir(), "lease.txt")
	require.NoError(t, os.WriteFile(path, []byte("Landlord: Jane Doe\nLease Term: 12 months"), 0o644))
	res, err := a.Processor.Analyze(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.ExtractStatusKeyword, res.Result.Status)

	history, err := a.Processor.History(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestNewNoHistory(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, nil, Options{NoHistory: true})
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.DB)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Export.Format = "docx"
	_, err := New(context.Background(), cfg, nil, Options{})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
