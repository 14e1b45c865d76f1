package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/export"
)

func TestBesidePathAndSummaryFilter(t *testing.T) {
	p := export.Payload{Filename: "lease_summary.pdf"}
	dest := besidePath("/inbox/unit 4B.pdf", p)
	assert.Equal(t, filepath.Join("/inbox", "unit 4B.lease_summary.pdf"), dest)
	assert.True(t, isSummaryFile(dest))
	assert.True(t, isSummaryFile("/inbox/x.document_summary.xlsx"))
	assert.False(t, isSummaryFile("/inbox/unit 4B.pdf"))
}

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

func TestRunAnalyzeAndExportWithoutBackend(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "lease.txt")
	require.NoError(t, os.WriteFile(src, []byte("Landlord: Jane Doe\nTenant: John Roe\nMonthly Rent: $2,000\nLease term 12 months"), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), "analyze", []string{src}, cfg, nil, &out))
	assert.Contains(t, out.String(), "Jane Doe")
	assert.Contains(t, out.String(), "KEYWORD_FALLBACK")

	out.Reset()
	require.NoError(t, run(context.Background(), "export", []string{"-format", "xlsx", src}, cfg, nil, &out))
	written := filepath.Join(dir, "lease.lease_summary.xlsx")
	info, err := os.Stat(written)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	out.Reset()
	require.NoError(t, run(context.Background(), "history", nil, cfg, nil, &out))
	assert.Contains(t, out.String(), "lease.txt")
}

func TestRunValueNeedsProvider(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(t.TempDir(), "lease.txt")
	require.NoError(t, os.WriteFile(src, []byte("Tenant: John Roe"), 0o644))

	err := run(context.Background(), "value", []string{src}, cfg, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, common.ErrProviderUnavailable)
}

func TestRunUsageErrors(t *testing.T) {
	cfg := testConfig(t)
	for _, tc := range []struct {
		cmd  string
		args []string
	}{
		{"frobnicate", nil},
		{"analyze", nil},
		{"ask", []string{"lease.pdf", "agent"}},
		{"export", []string{"-bogus"}},
	} {
		err := run(context.Background(), tc.cmd, tc.args, cfg, nil, &bytes.Buffer{})
		assert.True(t, errors.Is(err, errUsage), tc.cmd)
	}
}
