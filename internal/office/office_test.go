package office

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner emulates the engine by writing the file it would produce.
type fakeRunner struct {
	args    []string
	produce string
	err     error
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	return "", errors.New("not found")
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.args = args
	if f.err != nil {
		return "Error: source file could not be loaded", f.err
	}
	if f.produce != "" {
		if err := os.WriteFile(f.produce, []byte("%PDF-1.4"), 0o644); err != nil {
			return "", err
		}
	}
	return "", nil
}

func TestArgsShape(t *testing.T) {
	assert.Equal(t,
		[]string{"--headless", "--convert-to", "pdf", "--outdir", "/out", "/in/a.docx"},
		Args("pdf", "/out", "/in/a.docx"))
}

func TestProducedPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/out", "report.v2.pdf"), ProducedPath("/in/report.v2.docx", "pdf", "/out"))
	assert.Equal(t, filepath.Join("/out", "notes.txt"), ProducedPath("/in/notes.doc", "txt:Text", "/out"))
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in", "slides.pptx")
	output := filepath.Join(dir, "slides.pdf")

	r := &fakeRunner{produce: output}
	e := New("soffice", r)

	require.NoError(t, e.Convert(context.Background(), input, output, "pdf"))
	assert.Equal(t, Args("pdf", dir, input), r.args)
	assert.FileExists(t, output)
	assert.False(t, e.Available())
}

func TestConvertRenamesProducedFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "memo.doc")
	produced := filepath.Join(dir, "memo.txt")
	output := filepath.Join(dir, "memo-text.txt")

	e := New("libreoffice", &fakeRunner{produce: produced})
	require.NoError(t, e.Convert(context.Background(), input, output, "txt:Text"))

	assert.FileExists(t, output)
	assert.NoFileExists(t, produced)
}

func TestConvertFailures(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.docx")
	output := filepath.Join(dir, "a.pdf")

	t.Run("non-zero exit", func(t *testing.T) {
		e := New("libreoffice", &fakeRunner{err: errors.New("exit status 1")})
		err := e.Convert(context.Background(), input, output, "pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not be loaded")
	})

	t.Run("no output produced", func(t *testing.T) {
		e := New("libreoffice", &fakeRunner{})
		err := e.Convert(context.Background(), input, output, "pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "produced no a.pdf")
	})
}
