package testkit

import (
	"fmt"
	"io"
	"math/rand"
	"strings"

	"cetaksoal/adapters/excel"
	"cetaksoal/domain/exam"
)

// BankHeaders are the column names written to generated workbooks, in the
// long form most templates use
var BankHeaders = []string{
	"No", "Tipe", "Level", "Materi", "Butir Pertanyaan", "Gambar Soal (URL)",
	"Opsi A", "Opsi B", "Opsi C", "Opsi D", "Opsi E",
	"Kunci Jawaban", "Pembahasan", "ID Soal",
}

// BankTypes are the question types the generator cycles through
var BankTypes = []string{
	"Pilihan Ganda",
	"Pilihan Ganda Jamak",
	"Benar/Salah",
	"Sesuai/Tidak Sesuai",
	"Uraian",
}

// BankConfig configures the sample question bank generator
type BankConfig struct {
	QuestionCount int    `json:"question_count"`
	Seed          int64  `json:"seed"`
	Images        bool   `json:"images"`
	SheetName     string `json:"sheet_name"`
}

// DefaultBankConfig returns a small deterministic bank
func DefaultBankConfig() BankConfig {
	return BankConfig{
		QuestionCount: 20,
		Seed:          42,
		SheetName:     "Bank Soal",
	}
}

var (
	topics = []string{"Bilangan", "Aljabar", "Geometri", "Ekosistem", "Sejarah Indonesia", "Teks Deskripsi"}
	levels = []string{"LOTS", "MOTS", "HOTS"}
)

// BankGenerator produces sample question rows. The same config always
// yields the same rows.
type BankGenerator struct {
	config BankConfig
	rng    *rand.Rand
}

// NewBankGenerator creates a generator seeded from config
func NewBankGenerator(config BankConfig) *BankGenerator {
	return &BankGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Rows generates one row per question, aligned with BankHeaders
func (g *BankGenerator) Rows() [][]string {
	g.rng = rand.New(rand.NewSource(g.config.Seed))

	rows := make([][]string, 0, g.config.QuestionCount)
	for i := 0; i < g.config.QuestionCount; i++ {
		rows = append(rows, g.row(i))
	}
	return rows
}

func (g *BankGenerator) row(i int) []string {
	no := i + 1
	tipe := BankTypes[i%len(BankTypes)]
	topic := topics[g.rng.Intn(len(topics))]

	soal := fmt.Sprintf("Soal nomor %d tentang **%s**.", no, topic)
	if no%7 == 0 {
		soal += "\n| x | y |\n|---|---|\n| 1 | 2 |\n| 3 | 6 |\nTentukan *pola* hubungan x dan y."
	}

	img := ""
	if g.config.Images && no%3 == 0 {
		img = fmt.Sprintf("https://example.com/soal/%03d.png", no)
	}

	var opts [5]string
	kunci := ""
	switch tipe {
	case "Benar/Salah", "Sesuai/Tidak Sesuai":
		n := 3 + g.rng.Intn(2)
		marks := make([]string, 0, n)
		for k := 0; k < n; k++ {
			opts[k] = fmt.Sprintf("Pernyataan %d tentang %s", k+1, strings.ToLower(topic))
			if g.rng.Intn(2) == 0 {
				marks = append(marks, "B")
			} else {
				marks = append(marks, "S")
			}
		}
		kunci = strings.Join(marks, ",")
	case "Uraian":
		kunci = "Jawaban terbuka"
	default:
		n := 4 + g.rng.Intn(2)
		for k := 0; k < n; k++ {
			opts[k] = fmt.Sprintf("Pilihan %c untuk soal %d", 'A'+k, no)
		}
		first := g.rng.Intn(n)
		kunci = string(rune('A' + first))
		if tipe == "Pilihan Ganda Jamak" {
			second := (first + 1 + g.rng.Intn(n-1)) % n
			kunci += "," + string(rune('A'+second))
		}
	}

	return []string{
		fmt.Sprint(no),
		tipe,
		levels[g.rng.Intn(len(levels))],
		topic,
		soal,
		img,
		opts[0], opts[1], opts[2], opts[3], opts[4],
		kunci,
		fmt.Sprintf("Pembahasan soal %d: lihat materi *%s*.", no, topic),
		fmt.Sprintf("SOAL-%03d", no),
	}
}

// Records converts generated rows into mapper input, leaving out empty
// cells the way the workbook reader does
func (g *BankGenerator) Records() []exam.Record {
	rows := g.Rows()
	records := make([]exam.Record, 0, len(rows))
	for _, row := range rows {
		r := make(exam.Record, len(row))
		for j, cell := range row {
			if cell != "" {
				r[BankHeaders[j]] = cell
			}
		}
		records = append(records, r)
	}
	return records
}

// Questions returns the questions the generated rows map to
func (g *BankGenerator) Questions() []exam.Question {
	return exam.MapRecords(g.Records())
}

// WriteWorkbook writes the generated bank as an .xlsx workbook
func (g *BankGenerator) WriteWorkbook(w io.Writer) error {
	return excel.WriteWorkbook(w, g.config.SheetName, BankHeaders, g.Rows())
}
