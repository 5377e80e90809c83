package ooxml

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicholasgasior/fileconverter-go/internal/docxmath"
)

func buildZip(t *testing.T, files map[string]string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return bytes.NewReader(buf.Bytes())
}

func TestRelsPathFor(t *testing.T) {
	assert.Equal(t, "word/_rels/document.xml.rels", RelsPathFor("word/document.xml"))
	assert.Equal(t, "_rels/.rels", RelsPathFor(".rels"))
	assert.Equal(t, "ppt/slides/slide1.xml", ResolveTarget("ppt/presentation.xml", "slides/slide1.xml"))
	assert.Equal(t, "ppt/media/a.png", ResolveTarget("ppt/slides/slide1.xml", "/ppt/media/a.png"))
	assert.Equal(t, "ppt/notesSlides/n1.xml", ResolveTarget("ppt/slides/slide1.xml", "../notesSlides/n1.xml"))
}

func TestWriteThenReadDocx(t *testing.T) {
	in := []Paragraph{
		{Text: "Quarterly report", Heading: 1},
		{Text: "Revenue grew\tslightly."},
		{Text: "line one\nline two"},
		{Text: ""},
		{Text: "Outlook", Heading: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteDocx(&buf, in))

	got, err := ReadDocx(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestReadDocxStyleNames(t *testing.T) {
	r := buildZip(t, map[string]string{
		"word/styles.xml": `<w:styles xmlns:w="` + NSWordprocessingML + `">
<w:style w:type="paragraph" w:styleId="Berschrift2"><w:name w:val="heading 2"/></w:style>
</w:styles>`,
		"word/document.xml": `<w:document xmlns:w="` + NSWordprocessingML + `"><w:body>
<w:p><w:pPr><w:pStyle w:val="Berschrift2"/></w:pPr><w:r><w:t>Kapitel</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Titel</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">a </w:t></w:r><w:r><w:t>b</w:t></w:r></w:p>
</w:body></w:document>`,
	})
	got, err := ReadDocx(r, r.Size())
	require.NoError(t, err)
	assert.Equal(t, []Paragraph{
		{Text: "Kapitel", Heading: 2},
		{Text: "Titel", Heading: 1},
		{Text: "a b"},
	}, got)
}

func TestReadDocxEquations(t *testing.T) {
	r := buildZip(t, map[string]string{
		"word/document.xml": `<w:document xmlns:w="` + NSWordprocessingML + `" xmlns:m="` + docxmath.Namespace + `"><w:body>
<w:p><w:r><w:t xml:space="preserve">Area is </w:t></w:r><m:oMath><m:sSup><m:e><m:r><m:t>r</m:t></m:r></m:e><m:sup><m:r><m:t>2</m:t></m:r></m:sup></m:sSup></m:oMath><w:r><w:t>.</w:t></w:r></w:p>
<w:p><m:oMathPara><m:oMath><m:f><m:num><m:r><m:t>a</m:t></m:r></m:num><m:den><m:r><m:t>b</m:t></m:r></m:den></m:f></m:oMath></m:oMathPara></w:p>
<w:p><w:r><w:t>plain</w:t></w:r></w:p>
</w:body></w:document>`,
	})
	got, err := ReadDocx(r, r.Size())
	require.NoError(t, err)
	assert.Equal(t, []Paragraph{
		{Text: "Area is r^{2}.", Runs: []Run{
			{Text: "Area is "},
			{Text: "r^{2}", Math: true},
			{Text: "."},
		}},
		{Text: `\frac{a}{b}`, Runs: []Run{{Text: `\frac{a}{b}`, Math: true, Display: true}}},
		{Text: "plain"},
	}, got)
}

func TestReadDocxRejectsNonZip(t *testing.T) {
	r := bytes.NewReader([]byte("plain text"))
	_, err := ReadDocx(r, r.Size())
	require.Error(t, err)
}

func TestReadSlides(t *testing.T) {
	slide := func(texts ...string) string {
		s := `<p:sld xmlns:p="` + NSPresentationML + `" xmlns:a="` + NSDrawingML + `"><p:cSld><p:spTree><p:sp><p:txBody>`
		for _, txt := range texts {
			s += `<a:p><a:r><a:t>` + txt + `</a:t></a:r></a:p>`
		}
		return s + `<a:p></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
	}
	r := buildZip(t, map[string]string{
		"ppt/presentation.xml": `<p:presentation xmlns:p="` + NSPresentationML + `" xmlns:r="` + NSRelDoc + `">
<p:sldIdLst><p:sldId id="257" r:id="rId3"/><p:sldId id="256" r:id="rId2"/></p:sldIdLst></p:presentation>`,
		"ppt/_rels/presentation.xml.rels": `<Relationships xmlns="` + NSRelationships + `">
<Relationship Id="rId2" Type="` + NSRelDoc + `/slide" Target="slides/slide1.xml"/>
<Relationship Id="rId3" Type="` + NSRelDoc + `/slide" Target="slides/slide2.xml"/>
</Relationships>`,
		"ppt/slides/slide1.xml": slide("Agenda", "Budget"),
		"ppt/slides/slide2.xml": slide("Welcome"),
		"ppt/slides/_rels/slide2.xml.rels": `<Relationships xmlns="` + NSRelationships + `">
<Relationship Id="rId1" Type="` + NSRelDoc + `/notesSlide" Target="../notesSlides/notesSlide1.xml"/>
</Relationships>`,
		"ppt/notesSlides/notesSlide1.xml": slide("Say hello"),
	})

	slides, err := ReadSlides(r, r.Size())
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, Slide{Number: 1, Paragraphs: []string{"Welcome"}, Notes: []string{"Say hello"}}, slides[0])
	assert.Equal(t, []string{"Agenda", "Budget"}, slides[1].Paragraphs)
	assert.Empty(t, slides[1].Notes)
}
