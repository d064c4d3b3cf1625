package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cetaksoal/domain/exam"
	"cetaksoal/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testOptions(outDir string) convertOptions {
	settings := exam.DefaultSettings()
	settings.ShowExplanation = true
	return convertOptions{
		outDir:   outDir,
		jobs:     2,
		header:   exam.DefaultHeaderInfo(),
		settings: settings,
		maxBytes: 1 << 20,
		logger:   internal.NewLogger(internal.LogLevelError),
	}
}

func TestRunConvertContinuesPastFailures(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "cetak")

	good := writeFile(t, in, "bank.csv", "No,Soal,A,Kunci\n1,**Tanya**,Jawab,A\n")
	bad := writeFile(t, in, "rusak.xlsx", "bukan workbook")
	missing := filepath.Join(in, "tidak-ada.xlsx")

	var out bytes.Buffer
	err := runConvert(context.Background(), testOptions(outDir), []string{good, bad, missing}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 files failed")

	html, readErr := os.ReadFile(filepath.Join(outDir, "bank.html"))
	require.NoError(t, readErr)
	assert.Contains(t, string(html), "<strong>Tanya</strong>")
	assert.Contains(t, string(html), "Kunci: A")

	report := out.String()
	assert.Contains(t, report, "ok   "+good)
	assert.Contains(t, report, "FAIL "+bad)
	assert.Contains(t, report, "Gagal membaca file Excel.")
	assert.Contains(t, report, "FAIL "+missing)
}

func TestRunConvertAllGood(t *testing.T) {
	in := t.TempDir()
	outDir := t.TempDir()
	a := writeFile(t, in, "a.csv", "No,Soal\n1,x\n")
	b := writeFile(t, in, "b.csv", "No,Soal\n1,y\n2,z\n")

	var out bytes.Buffer
	require.NoError(t, runConvert(context.Background(), testOptions(outDir), []string{a, b}, &out))

	assert.FileExists(t, filepath.Join(outDir, "a.html"))
	assert.FileExists(t, filepath.Join(outDir, "b.html"))
	assert.Contains(t, out.String(), "(2 soal)")
}

func TestRunInspect(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bank.csv", "No,Butir Pertanyaan,Opsi A\n5,Tanya,Jawab\n")

	var out bytes.Buffer
	require.NoError(t, runInspect(context.Background(), path, 1<<20, internal.NewLogger(internal.LogLevelError), &out))

	var result struct {
		Count     int `json:"count"`
		Questions []struct {
			No   float64 `json:"no"`
			Soal string  `json:"soal"`
			A    string  `json:"a"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, float64(5), result.Questions[0].No)
	assert.Equal(t, "Tanya", result.Questions[0].Soal)
	assert.Equal(t, "Jawab", result.Questions[0].A)
}
