package excel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWorkbookRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWorkbook(&buf, "Bank Soal",
		[]string{"No", "Soal", "A", "B"},
		[][]string{
			{"1", "Ibu kota?", "Jakarta", "Bandung"},
			{"2", "Lanjut", "", "x"},
		})
	require.NoError(t, err)

	data, err := NewDataReader("bank.xlsx", DefaultExcelConfig()).ReadData(context.Background(), &buf)
	require.NoError(t, err)

	assert.Equal(t, "Bank Soal", data.SheetName)
	assert.Equal(t, []string{"No", "Soal", "A", "B"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "1", data.Rows[0]["No"])
	assert.Equal(t, "Jakarta", data.Rows[0]["A"])
	_, hasA := data.Rows[1]["A"]
	assert.False(t, hasA)
	assert.Equal(t, "x", data.Rows[1]["B"])
}

func TestWriteWorkbookDefaultSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, "", []string{"No"}, nil))

	data, err := NewDataReader("bank.xlsx", DefaultExcelConfig()).ReadData(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", data.SheetName)
	assert.Empty(t, data.Rows)
}
