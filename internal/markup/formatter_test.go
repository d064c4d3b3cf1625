package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "", Format(""))
}

func TestFormatInline(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold and italic", "**bold** and *italic*", "<strong>bold</strong> and <em>italic</em>"},
		{"several bold spans", "**a** x **b**", "<strong>a</strong> x <strong>b</strong>"},
		{"newlines", "baris 1\nbaris 2", "baris 1<br>baris 2"},
		{"crlf", "a\r\nb", "a<br>b"},
		{"unbalanced asterisk", "2 * 3", "2 * 3"},
		{"raw html passes through", "<u>x</u> & y", "<u>x</u> & y"},
		{"tex passes through", "$x^2$", "$x^2$"},
		{"bold does not cross lines", "**a\nb**", "<em></em>a<br>b<em></em>"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.in))
		})
	}
}

func TestFormatTable(t *testing.T) {
	got := Format("|A|B|\n|---|---|\n|1|2|")

	assert.Equal(t,
		`<table class="content-table"><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>`,
		got)
	assert.NotContains(t, got, "---")
}

func TestFormatTableWithSurroundingText(t *testing.T) {
	got := Format("Perhatikan tabel:\n| x | y |\n|:--:|--:|\n| 1 | 2 |\n| 3 | 4 |\nLalu jawab.")

	assert.Equal(t,
		`Perhatikan tabel:<br><table class="content-table">`+
			`<tr><th>x</th><th>y</th></tr>`+
			`<tr><td>1</td><td>2</td></tr>`+
			`<tr><td>3</td><td>4</td></tr>`+
			`</table>Lalu jawab.`,
		got)
}

func TestFormatTableCellsKeepInlineMarkup(t *testing.T) {
	got := Format("|**H**|*i*|\n|-|-|\n|a|b|")

	assert.Contains(t, got, "<th><strong>H</strong></th><th><em>i</em></th>")
}

func TestFormatPipeBlockWithoutSeparatorIsLeftAlone(t *testing.T) {
	assert.Equal(t, "|a|b|<br>|c|d|", Format("|a|b|\n|c|d|"))
}

func TestFormatIndentedPipeBlockIsLeftAlone(t *testing.T) {
	assert.Equal(t, "  |a|b|<br>  |---|---|<br>  |1|2|", Format("  |a|b|\n  |---|---|\n  |1|2|"))
	assert.Equal(t, "|a|b| <br>|---|---|", Format("|a|b| \n|---|---|"))
}

func TestFormatSingleLineIsNotTable(t *testing.T) {
	assert.Equal(t, "|---|", Format("|---|"))
}

func TestFormatSeparatorMustBeDashesOnly(t *testing.T) {
	// a cell with a dash inside text is not a separator
	assert.Equal(t, "|a-b|c|<br>|d|e|", Format("|a-b|c|\n|d|e|"))
}

func TestFormatTableHasNoRawNewlines(t *testing.T) {
	got := Format("|A|B|\n|---|---|\n|1|2|\n")

	assert.True(t, strings.HasSuffix(got, "</table>"))
	assert.NotContains(t, got, "\n")
	assert.NotContains(t, got, "<br>")
}

func TestFormatIdempotentOnFormattedOutput(t *testing.T) {
	once := Format("**a** and *b*\n|A|B|\n|---|---|\n|1|2|")
	assert.Equal(t, once, Format(once))

	withNewline := "<strong>a</strong>\nplain"
	assert.Equal(t, "<strong>a</strong><br>plain", Format(withNewline))
}
