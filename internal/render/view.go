package render

import (
	"html/template"

	"cetaksoal/domain/exam"
	"cetaksoal/internal/layout"
	"cetaksoal/internal/markup"
	"cetaksoal/internal/state"
)

// DocumentView is the template data for a whole document
type DocumentView struct {
	Header       exam.HeaderInfo
	Settings     exam.Settings
	Align        string
	HasQuestions bool
	Questions    []QuestionView
	Styles       template.CSS
}

// QuestionView is one question ready for the template. Every HTML field
// has been through markup.Format.
type QuestionView struct {
	Number          string
	Stem            template.HTML
	Img             string
	Answers         AnswersView
	ShowExplanation bool
	Key             string
	Explanation     template.HTML
	FontSize        float64
}

// AnswersView is a layout.Layout with formatted bodies
type AnswersView struct {
	Mode    layout.Mode
	Headers []string
	Rows    []AnswerRowView
}

type AnswerRowView struct {
	Label string
	Body  template.HTML
	Img   string
}

func formatHTML(s string) template.HTML {
	return template.HTML(markup.Format(s))
}

// BuildView turns a snapshot into template data
func BuildView(snap state.Snapshot) DocumentView {
	settings := snap.Settings.Normalize()
	view := DocumentView{
		Header:       snap.Header,
		Settings:     settings,
		Align:        string(settings.GlobalAlign),
		HasQuestions: snap.HasQuestions(),
		Questions:    make([]QuestionView, 0, len(snap.Questions)),
		Styles:       template.CSS(stylesheet),
	}
	for _, q := range snap.Questions {
		view.Questions = append(view.Questions, buildQuestion(q, settings))
	}
	return view
}

func buildQuestion(q exam.Question, settings exam.Settings) QuestionView {
	l := layout.Select(q)
	answers := AnswersView{Mode: l.Mode, Headers: l.Headers, Rows: make([]AnswerRowView, 0, len(l.Rows))}
	for _, r := range l.Rows {
		answers.Rows = append(answers.Rows, AnswerRowView{Label: r.Label, Body: formatHTML(r.Body), Img: r.Img})
	}

	return QuestionView{
		Number:          q.No.String(),
		Stem:            formatHTML(q.Soal),
		Img:             q.Img,
		Answers:         answers,
		ShowExplanation: settings.ShowExplanation,
		Key:             q.Kunci,
		Explanation:     formatHTML(q.Pembahasan),
		FontSize:        settings.FontSize,
	}
}
