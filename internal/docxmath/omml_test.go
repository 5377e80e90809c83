package docxmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textRun(text string) string {
	return "<m:r><m:t>" + text + "</m:t></m:r>"
}

func parse(t *testing.T, body string) *Node {
	t.Helper()
	n, err := Parse([]byte(`<m:oMath xmlns:m="` + Namespace + `">` + body + `</m:oMath>`))
	require.NoError(t, err)
	return n
}

func TestLaTeX(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"fraction", "<m:f><m:num>" + textRun("a") + "</m:num><m:den>" + textRun("b") + "</m:den></m:f>", `\frac{a}{b}`},
		{"linear fraction", `<m:f><m:fPr><m:type m:val="lin"/></m:fPr><m:num>` + textRun("1") + "</m:num><m:den>" + textRun("2") + "</m:den></m:f>", `{1}/{2}`},
		{"superscript", "<m:sSup><m:e>" + textRun("x") + "</m:e><m:sup>" + textRun("2") + "</m:sup></m:sSup>", `x^{2}`},
		{"subscript", "<m:sSub><m:e>" + textRun("a") + "</m:e><m:sub>" + textRun("n") + "</m:sub></m:sSub>", `a_{n}`},
		{"sum", `<m:nary><m:naryPr><m:chr m:val="∑"/></m:naryPr><m:sub>` + textRun("i=1") + "</m:sub><m:sup>" + textRun("n") + "</m:sup><m:e>" + textRun("i") + "</m:e></m:nary>", `\sum_{i=1}^{n}{i}`},
		{"integral by default", "<m:nary><m:e>" + textRun("f") + "</m:e></m:nary>", `\int{f}`},
		{"parentheses", "<m:d><m:e>" + textRun("x+y") + "</m:e></m:d>", `\left(x+y\right)`},
		{"braces", `<m:d><m:dPr><m:begChr m:val="{"/><m:endChr m:val=""/></m:dPr><m:e>` + textRun("x") + "</m:e></m:d>", `\left\{x\right.`},
		{"square root", "<m:rad><m:radPr><m:degHide m:val=\"1\"/></m:radPr><m:deg/><m:e>" + textRun("x") + "</m:e></m:rad>", `\sqrt{x}`},
		{"cube root", "<m:rad><m:deg>" + textRun("3") + "</m:deg><m:e>" + textRun("x") + "</m:e></m:rad>", `\sqrt[3]{x}`},
		{"function", "<m:func><m:fName>" + textRun("sin") + "</m:fName><m:e>" + textRun("x") + "</m:e></m:func>", `\sin(x)`},
		{"limit", "<m:func><m:fName><m:limLow><m:e>" + textRun("lim") + "</m:e><m:lim>" + textRun("x→0") + "</m:lim></m:limLow></m:fName><m:e>" + textRun("f") + "</m:e></m:func>", `\lim_{x\to 0}f`},
		{"hat accent", "<m:acc><m:e>" + textRun("a") + "</m:e></m:acc>", `\hat{a}`},
		{"vector accent", "<m:acc><m:accPr><m:chr m:val=\"\u20d7\"/></m:accPr><m:e>" + textRun("v") + "</m:e></m:acc>", `\vec{v}`},
		{"underline", `<m:bar><m:barPr><m:pos m:val="bot"/></m:barPr><m:e>` + textRun("z") + "</m:e></m:bar>", `\underline{z}`},
		{"matrix", "<m:m><m:mr><m:e>" + textRun("a") + "</m:e><m:e>" + textRun("b") + "</m:e></m:mr><m:mr><m:e>" + textRun("c") + "</m:e><m:e>" + textRun("d") + "</m:e></m:mr></m:m>", `\begin{matrix}a & b\\c & d\end{matrix}`},
		{"escapes specials", textRun("50% of $x"), `50\% of \$x`},
		{"italic letters fold", textRun("\U0001d465+\U0001d6fc"), `x+\alpha`},
		{"operators", textRun("a≤b"), `a\leq b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := parse(t, tt.body)
			assert.False(t, IsDisplay(n))
			assert.Equal(t, tt.want, LaTeX(n))
		})
	}
}

func TestLaTeXDisplay(t *testing.T) {
	n, err := Parse([]byte(`<m:oMathPara xmlns:m="` + Namespace + `">` +
		`<m:oMathParaPr><m:jc m:val="center"/></m:oMathParaPr>` +
		`<m:oMath>` + textRun("a=b") + `</m:oMath>` +
		`<m:oMath>` + textRun("b=c") + `</m:oMath>` +
		`</m:oMathPara>`))
	require.NoError(t, err)
	assert.True(t, IsDisplay(n))
	assert.Equal(t, `a=b\\b=c`, LaTeX(n))
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte(`<m:oMath xmlns:m="` + Namespace + `"><m:r>`))
	require.Error(t, err)
}
