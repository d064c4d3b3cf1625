package exam

import (
	"math"
	"strings"
)

// Question is one exam item as read from a spreadsheet row
type Question struct {
	No         Number `json:"no"`
	Tipe       string `json:"tipe"`
	Level      string `json:"level"`
	Materi     string `json:"materi"`
	Soal       string `json:"soal"`
	Img        string `json:"img,omitempty"`
	A          string `json:"a"`
	B          string `json:"b"`
	C          string `json:"c"`
	D          string `json:"d"`
	E          string `json:"e,omitempty"`
	ImgA       string `json:"imgA,omitempty"`
	ImgB       string `json:"imgB,omitempty"`
	ImgC       string `json:"imgC,omitempty"`
	ImgD       string `json:"imgD,omitempty"`
	ImgE       string `json:"imgE,omitempty"`
	Kunci      string `json:"kunci"`
	Pembahasan string `json:"pembahasan"`
	Token      string `json:"token"`
}

// Option is one answer slot of a question
type Option struct {
	Key   string // a..e
	Index int    // 0-based slot position
	Text  string
	Img   string
}

// Present reports whether the option has any visible text
func (o Option) Present() bool {
	return strings.TrimSpace(o.Text) != ""
}

// Options returns the five answer slots in order, including empty ones
func (q Question) Options() []Option {
	return []Option{
		{Key: "a", Index: 0, Text: q.A, Img: q.ImgA},
		{Key: "b", Index: 1, Text: q.B, Img: q.ImgB},
		{Key: "c", Index: 2, Text: q.C, Img: q.ImgC},
		{Key: "d", Index: 3, Text: q.D, Img: q.ImgD},
		{Key: "e", Index: 4, Text: q.E, Img: q.ImgE},
	}
}

// HeaderInfo holds the KOP letterhead text shown atop the printed document
type HeaderInfo struct {
	SchoolName   string `json:"schoolName" form:"schoolName"`
	Subject      string `json:"subject" form:"subject"`
	Grade        string `json:"grade" form:"grade"`
	AcademicYear string `json:"academicYear" form:"academicYear"`
	TimeLimit    string `json:"timeLimit" form:"timeLimit"`
}

// DefaultHeaderInfo returns the placeholder letterhead
func DefaultHeaderInfo() HeaderInfo {
	return HeaderInfo{
		SchoolName:   "NAMA SEKOLAH ANDA",
		Subject:      "MATA PELAJARAN",
		Grade:        "KELAS / SEMESTER",
		AcademicYear: "2023/2024",
		TimeLimit:    "90 Menit",
	}
}

// Merge overlays the non-empty fields of other onto h
func (h HeaderInfo) Merge(other HeaderInfo) HeaderInfo {
	if other.SchoolName != "" {
		h.SchoolName = other.SchoolName
	}
	if other.Subject != "" {
		h.Subject = other.Subject
	}
	if other.Grade != "" {
		h.Grade = other.Grade
	}
	if other.AcademicYear != "" {
		h.AcademicYear = other.AcademicYear
	}
	if other.TimeLimit != "" {
		h.TimeLimit = other.TimeLimit
	}
	return h
}

// Align is the global text alignment of the question columns
type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// Valid reports whether a is one of the known alignments
func (a Align) Valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return true
	}
	return false
}

const (
	MinColumns  = 1
	MaxColumns  = 3
	MinFontSize = 8.0
	MaxFontSize = 14.0
)

// Settings controls how the document is laid out for print
type Settings struct {
	Columns         int     `json:"columns" form:"columns"`
	ShowKop         bool    `json:"showKop" form:"showKop"`
	ShowExplanation bool    `json:"showExplanation" form:"showExplanation"`
	FontSize        float64 `json:"fontSize" form:"fontSize"`
	GlobalAlign     Align   `json:"globalAlign" form:"globalAlign"`
}

// DefaultSettings returns the initial print settings
func DefaultSettings() Settings {
	return Settings{
		Columns:         2,
		ShowKop:         true,
		ShowExplanation: false,
		FontSize:        11,
		GlobalAlign:     AlignJustify,
	}
}

// Normalize clamps every field to its allowed range
func (s Settings) Normalize() Settings {
	if s.Columns < MinColumns {
		s.Columns = MinColumns
	}
	if s.Columns > MaxColumns {
		s.Columns = MaxColumns
	}
	if math.IsNaN(s.FontSize) {
		s.FontSize = DefaultSettings().FontSize
	}
	if s.FontSize < MinFontSize {
		s.FontSize = MinFontSize
	}
	if s.FontSize > MaxFontSize {
		s.FontSize = MaxFontSize
	}
	// slider steps by half a pixel
	s.FontSize = float64(int(s.FontSize*2+0.5)) / 2
	if !s.GlobalAlign.Valid() {
		s.GlobalAlign = AlignJustify
	}
	return s
}
