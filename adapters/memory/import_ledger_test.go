package memory

import (
	"context"
	"fmt"
	"testing"

	"cetaksoal/domain/exam"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportLedgerNewestFirst(t *testing.T) {
	ledger := NewImportLedger(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, ledger.Record(ctx, exam.ImportEvent{SourceName: fmt.Sprintf("f%d.xlsx", i)}))
	}

	events, err := ledger.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "f5.xlsx", events[0].SourceName)
	assert.Equal(t, "f3.xlsx", events[2].SourceName)

	events, err = ledger.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestImportLedgerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ledger := NewImportLedger(0)
	assert.Error(t, ledger.Record(ctx, exam.ImportEvent{}))
	_, err := ledger.Recent(ctx, 1)
	assert.Error(t, err)
}
