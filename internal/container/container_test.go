package container

import (
	"context"
	"strings"
	"testing"

	"cetaksoal/domain/exam"
	"cetaksoal/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Import: config.ImportConfig{MaxUploadMB: 1, LedgerLimit: 5},
		Document: config.DocumentConfig{
			Header:   exam.DefaultHeaderInfo(),
			Settings: exam.DefaultSettings(),
		},
		LogLevel: "ERROR",
	}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestContainerWiresPipeline(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.Equal(t, int64(1<<20), c.ExcelConfig().MaxBytes)

	_, err = c.Importer.Import(context.Background(), "bank.csv", strings.NewReader("No,Soal\n1,Tanya\n"))
	require.NoError(t, err)
	assert.True(t, c.Store.Snapshot().HasQuestions())

	html, gen, err := c.Refresher.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), gen)
	assert.Contains(t, string(html), "Tanya")

	events, err := c.Ledger.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestDetachedImporterLeavesStore(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	result, err := c.DetachedImporter().Import(context.Background(), "bank.csv", strings.NewReader("No,Soal\n1,Tanya\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.False(t, c.Store.Snapshot().HasQuestions())

	events, err := c.Ledger.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, events, 1, "detached imports still reach the ledger")
}

func TestInitWithDatabaseRejectsNil(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.Error(t, c.InitWithDatabase(context.Background(), nil))
}

func TestOpenWithoutDatabaseUsesMemoryLedger(t *testing.T) {
	c, err := Open(context.Background(), testConfig())
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.Nil(t, c.DB)
	assert.NotNil(t, c.Ledger)
}
