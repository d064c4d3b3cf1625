package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cetaksoal/adapters/excel"
	"cetaksoal/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.xlsx")
	config := testkit.DefaultBankConfig()
	config.QuestionCount = 5

	require.NoError(t, writeSample(config, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	data, err := excel.NewDataReader(path, excel.DefaultExcelConfig()).ReadData(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, data.Rows, 5)
}

func TestRunSmokeTests(t *testing.T) {
	assert.NoError(t, runSmokeTests(context.Background()))
}

func TestRunMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.db")
	ctx := context.Background()

	require.NoError(t, runMigrations(ctx, path, "status"))
	require.NoError(t, runMigrations(ctx, path, "up"))
	require.NoError(t, runMigrations(ctx, path, "up"), "second run is a no-op")
	assert.Error(t, runMigrations(ctx, path, "down"))
}
