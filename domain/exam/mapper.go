package exam

// Record is one spreadsheet row keyed by its exact header text. A key is
// present only when the source row had an entry for that column.
type Record map[string]string

// fieldAliases lists the accepted header names for one Question field,
// most specific first. Matching is case-sensitive.
type fieldAliases struct {
	field   string
	headers []string
	assign  func(q *Question, v string)
}

var aliasTable = []fieldAliases{
	{"tipe", []string{"Tipe", "tipe"}, func(q *Question, v string) { q.Tipe = v }},
	{"level", []string{"Level", "level"}, func(q *Question, v string) { q.Level = v }},
	{"materi", []string{"Materi", "materi"}, func(q *Question, v string) { q.Materi = v }},
	{"soal", []string{"Butir Pertanyaan", "Soal", "soal"}, func(q *Question, v string) { q.Soal = v }},
	{"img", []string{"Gambar Soal (URL)", "Img", "img"}, func(q *Question, v string) { q.Img = v }},
	{"a", []string{"Opsi A", "A", "a"}, func(q *Question, v string) { q.A = v }},
	{"b", []string{"Opsi B", "B", "b"}, func(q *Question, v string) { q.B = v }},
	{"c", []string{"Opsi C", "C", "c"}, func(q *Question, v string) { q.C = v }},
	{"d", []string{"Opsi D", "D", "d"}, func(q *Question, v string) { q.D = v }},
	{"e", []string{"Opsi E", "E", "e"}, func(q *Question, v string) { q.E = v }},
	{"imgA", []string{"Gambar Opsi A (URL)", "ImgA"}, func(q *Question, v string) { q.ImgA = v }},
	{"imgB", []string{"Gambar Opsi B (URL)", "ImgB"}, func(q *Question, v string) { q.ImgB = v }},
	{"imgC", []string{"Gambar Opsi C (URL)", "ImgC"}, func(q *Question, v string) { q.ImgC = v }},
	{"imgD", []string{"Gambar Opsi D (URL)", "ImgD"}, func(q *Question, v string) { q.ImgD = v }},
	{"imgE", []string{"Gambar Opsi E (URL)", "ImgE"}, func(q *Question, v string) { q.ImgE = v }},
	{"kunci", []string{"Kunci Jawaban", "Kunci", "kunci"}, func(q *Question, v string) { q.Kunci = v }},
	{"pembahasan", []string{"Pembahasan", "pembahasan"}, func(q *Question, v string) { q.Pembahasan = v }},
	{"token", []string{"ID Soal", "Token", "token"}, func(q *Question, v string) { q.Token = v }},
}

var numberAliases = []string{"No", "no"}

// lookup returns the value under the first alias the record has an entry
// for, even when that entry is empty.
func (r Record) lookup(headers []string) (string, bool) {
	for _, h := range headers {
		if v, ok := r[h]; ok {
			return v, true
		}
	}
	return "", false
}

// MapRecord converts one row into a Question. It never fails: absent
// fields default to the empty string and an absent number to NaN.
func MapRecord(r Record) Question {
	var q Question

	if v, ok := r.lookup(numberAliases); ok {
		q.No = ParseNumber(v)
	} else {
		q.No = NaN()
	}

	for _, fa := range aliasTable {
		if v, ok := r.lookup(fa.headers); ok {
			fa.assign(&q, v)
		}
	}
	return q
}

// MapRecords maps every row of a sheet in order
func MapRecords(records []Record) []Question {
	questions := make([]Question, 0, len(records))
	for _, r := range records {
		questions = append(questions, MapRecord(r))
	}
	return questions
}

// AcceptedHeaders returns the header names recognised for each field, in
// precedence order, keyed by field name.
func AcceptedHeaders() map[string][]string {
	out := map[string][]string{"no": append([]string(nil), numberAliases...)}
	for _, fa := range aliasTable {
		out[fa.field] = append([]string(nil), fa.headers...)
	}
	return out
}
