package fileconverter

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nicholasgasior/fileconverter-go/internal/office"
)

// fakeRunner stands in for the external tools. By default it succeeds and
// writes the file the tool would have produced.
type fakeRunner struct {
	mu        sync.Mutex
	calls     [][]string
	available map[string]bool
	err       error
	// keepPartial writes the destination even when err is set.
	keepPartial bool
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	if f.available[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found")
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.err != nil && !f.keepPartial {
		return "conversion error", f.err
	}
	out := args[len(args)-1]
	if len(args) > 4 && args[0] == "--headless" {
		out = office.ProducedPath(args[len(args)-1], args[2], args[4])
	}
	if err := os.WriteFile(out, []byte("converted"), 0o644); err != nil {
		return "", err
	}
	if f.err != nil {
		return "conversion error", f.err
	}
	return "", nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRunner) lastCall() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

// recorder is a Reporter that keeps every notification.
type recorder struct {
	mu        sync.Mutex
	percents  []int
	messages  []string
	completed int
	success   bool
	summary   string
}

func (r *recorder) Progress(percent int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.percents = append(r.percents, percent)
	r.messages = append(r.messages, message)
}

func (r *recorder) Complete(success bool, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
	r.success = success
	r.summary = message
}

func writePNG(t *testing.T, path string, withAlpha bool) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			a := uint8(255)
			if withAlpha && x < 4 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: uint8(x * 30), A: a})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveOutputPath(t *testing.T) {
	tests := []struct {
		input, format, dir, want string
	}{
		{"/docs/report.v2.docx", "pdf", "/out", filepath.Join("/out", "report.v2.pdf")},
		{"photo.PNG", ".JPG", "/tmp", filepath.Join("/tmp", "photo.jpg")},
		{"/music/track", "mp3", "out", filepath.Join("out", "track.mp3")},
		{"/a/b/.hidden", "txt", "/c", filepath.Join("/c", ".hidden.txt")},
		{"/in/.png", "jpg", "/out", filepath.Join("/out", ".png.jpg")},
		{"/in/.config.png", "jpg", "/out", filepath.Join("/out", ".config.jpg")},
		{"clip.mp4", " gif ", "", "clip.gif"},
	}
	for _, tt := range tests {
		got := ResolveOutputPath(tt.input, tt.format, tt.dir)
		if got != tt.want {
			t.Errorf("ResolveOutputPath(%q, %q, %q) = %q, want %q", tt.input, tt.format, tt.dir, got, tt.want)
		}
		if !strings.HasSuffix(got, "."+NormalizeFormat(tt.format)) {
			t.Errorf("%q does not end in the requested format", got)
		}
		if again := ResolveOutputPath(got, tt.format, tt.dir); again != got {
			t.Errorf("resolving %q again gave %q", got, again)
		}
	}
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	sniffed := filepath.Join(dir, "blob")
	writePNG(t, sniffed, false)
	if err := mime.AddExtensionType(".fcvtest", "audio/x-fcvtest"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		want Category
	}{
		{"holiday.PNG", CategoryImage},
		{"scan.tif", CategoryImage},
		{"movie.mkv", CategoryVideo},
		{"report.v2.docx", CategoryDocument},
		{"feed.atom", CategoryDocument},
		{"song.FLAC", CategoryAudio},
		{"voice.fcvtest", CategoryAudio},
		{sniffed, CategoryImage},
		{"b.unknownext", CategoryUnknown},
		{".mp3", CategoryUnknown},
		{"", CategoryUnknown},
		{filepath.Join(dir, "missing"), CategoryUnknown},
	}
	e := New()
	for _, tt := range tests {
		if got := e.Classify(tt.path); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.path, got, tt.want)
		}
		if got := Classify(tt.path); got != tt.want {
			t.Errorf("package Classify(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestCategoryNames(t *testing.T) {
	for _, c := range append(Categories, CategoryUnknown) {
		got, err := ParseCategory(strings.ToUpper(c.String()))
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCategory("spreadsheet"); err == nil {
		t.Error("expected an error for an unknown category name")
	}
}

func TestDispatcherConsistency(t *testing.T) {
	e := New()
	formats := e.OutputFormats()
	if !slices.IsSorted(formats) {
		t.Errorf("OutputFormats not sorted: %v", formats)
	}
	for _, f := range formats {
		conv, ok := e.SelectConverter(f)
		if !ok {
			t.Fatalf("no converter for listed format %q", f)
		}
		if !slices.Contains(conv.SupportedOutputs(), f) {
			t.Errorf("%s converter selected for %q but does not produce it", conv.Name(), f)
		}
	}

	want := map[string]string{
		"gif": "image", "JPG": "image", ".mp3": "audio", "webm": "video",
		"md": "document", "xlsx": "document",
	}
	for format, name := range want {
		conv, ok := e.SelectConverter(format)
		if !ok || conv.Name() != name {
			t.Errorf("SelectConverter(%q) = %v, %v; want %s", format, conv, ok, name)
		}
	}
	if _, ok := e.SelectConverter("exe"); ok {
		t.Error("SelectConverter(exe) should miss")
	}

	video, ok := e.ConverterFor(CategoryVideo)
	if !ok || !slices.Contains(video.SupportedOutputs(), "gif") {
		t.Error("video converter should still produce gif when chosen directly")
	}
}

func TestRegistryValidation(t *testing.T) {
	overlap := DefaultCategoryExtensions()
	overlap[CategoryAudio] = append(overlap[CategoryAudio], "mp4")
	if _, err := NewRegistry(overlap); err == nil {
		t.Error("expected overlapping extension sets to be rejected")
	}

	if _, err := NewRegistry(DefaultCategoryExtensions(), NewAudioConverter(nil), NewAudioConverter(nil)); err != nil {
		t.Errorf("registering the same converter twice: %v", err)
	}

	sets := DefaultCategoryExtensions()
	sets[CategoryAudio] = []string{"mp3"}
	sets[CategoryDocument] = append(sets[CategoryDocument], "wav")
	if _, err := NewRegistry(sets, NewAudioConverter(nil)); err == nil {
		t.Error("expected a converter accepting another category's extension to be rejected")
	}

	r, err := NewRegistry(DefaultCategoryExtensions(), NewVideoConverter(nil))
	if err != nil {
		t.Fatal(err)
	}
	if conv, ok := r.SelectConverter("gif"); !ok || conv.Name() != "video" {
		t.Error("gif should fall to the video converter when no image converter is registered")
	}
	if got := r.OutputFormatsByCategory()[CategoryVideo]; !slices.Equal(got, []string{"avi", "gif", "mkv", "mov", "mp4", "webm"}) {
		t.Errorf("video formats = %v", got)
	}
}

func TestRegisterConverterConflictKeepsRegistry(t *testing.T) {
	e := New()
	image, _ := e.ConverterFor(CategoryImage)
	rogue := &stubConverter{
		converterBase: newConverterBase("rogue", CategoryImage, []string{"png", "mp3"}, []string{"png"}, nil, 0),
	}
	if err := e.RegisterConverter(rogue); err == nil {
		t.Fatal("expected a converter accepting an audio extension to be rejected")
	}

	if got, ok := e.ConverterFor(CategoryImage); !ok || got != image {
		t.Errorf("ConverterFor(image) = %v, %v; want the registered image converter", got, ok)
	}
	if got, ok := e.SelectConverter("png"); !ok || got != image {
		t.Errorf("SelectConverter(png) = %v, %v; want the registered image converter", got, ok)
	}

	if err := e.RegisterConverter(NewAudioConverter(e)); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"png", "jpg", "gif", "webp"} {
		if got, ok := e.SelectConverter(f); !ok || got != image {
			t.Errorf("after a later rebuild SelectConverter(%q) = %v, %v", f, got, ok)
		}
	}
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest("a.png", " .JPG", "/out", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if req.OutputFormat != "jpg" {
		t.Errorf("format = %q", req.OutputFormat)
	}
	if _, err := NewRequest("a.png", "", "/out", DefaultOptions()); err == nil {
		t.Error("expected error for empty format")
	}
	if _, err := NewRequest("a.png", "jpg", "/out", Options{Quality: "ultra"}); err == nil {
		t.Error("expected error for invalid quality")
	}
	if q, err := ParseQuality("Medium"); err != nil || q != QualityMedium {
		t.Errorf("ParseQuality(Medium) = %q, %v", q, err)
	}
}

func TestRunBatchMixedInputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.unknownext")
	writePNG(t, a, true)
	touch(t, b)
	if err := os.MkdirAll(out, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(out, "a.jpg"))

	e := New(WithRunner(&fakeRunner{}))
	rec := &recorder{}
	opts := Options{Quality: QualityHigh, Overwrite: true, MaintainAspectRatio: true}
	res, err := e.RunBatch(context.Background(), []string{a, b}, "jpg", out, opts, rec)
	if err != nil {
		t.Fatal(err)
	}

	if res.Total != 2 || res.Attempted != 2 || res.Succeeded != 1 || res.Failed() != 1 {
		t.Errorf("result = %+v", res)
	}
	if rec.completed != 1 || rec.success || rec.summary != "Converted 1 of 2 files successfully" {
		t.Errorf("complete = %d %v %q", rec.completed, rec.success, rec.summary)
	}
	if !slices.Equal(rec.percents, []int{0, 50}) {
		t.Errorf("percents = %v", rec.percents)
	}
	if !slices.Equal(rec.messages, []string{"Converting a.png...", "Converting b.unknownext..."}) {
		t.Errorf("messages = %v", rec.messages)
	}
	if !res.Outcomes[0].Success {
		t.Errorf("a.png: %v", res.Outcomes[0].Err)
	}
	written, err := os.ReadFile(filepath.Join(out, "a.jpg"))
	if err != nil {
		t.Fatalf("a.jpg not written: %v", err)
	}
	if _, format, err := image.Decode(bytes.NewReader(written)); err != nil || format != "jpeg" {
		t.Errorf("existing a.jpg not replaced with a JPEG: format %q, err %v", format, err)
	}
	if res.Outcomes[1].Kind() != KindUnsupportedInput {
		t.Errorf("b.unknownext kind = %v", res.Outcomes[1].Kind())
	}
}

func TestRunBatchNoConverter(t *testing.T) {
	rec := &recorder{}
	dir := t.TempDir()
	_, err := New().RunBatch(context.Background(), []string{"a.png"}, "exe", filepath.Join(dir, "out"), DefaultOptions(), rec)
	if !IsNoConverter(err) {
		t.Fatalf("err = %v, want NoConverterError", err)
	}
	if len(rec.messages) != 0 || rec.completed != 0 {
		t.Error("reporter must not be called when no converter matches")
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Error("output directory created for a rejected batch")
	}
	if _, err := New().Start(context.Background(), nil, "exe", dir, DefaultOptions()); !IsNoConverter(err) {
		t.Errorf("Start err = %v", err)
	}
}

// stubConverter succeeds for every file unless it panics.
type stubConverter struct {
	converterBase
	panicOn string
	delay   time.Duration
}

func newStub(panicOn string) *stubConverter {
	return &stubConverter{
		converterBase: newConverterBase("stub", CategoryDocument, []string{"txt"}, []string{"md"}, nil, 0),
		panicOn:       panicOn,
	}
}

func (s *stubConverter) Convert(ctx context.Context, req Request) Outcome {
	if filepath.Base(req.InputPath) == s.panicOn {
		panic("boom")
	}
	time.Sleep(s.delay)
	return Outcome{InputPath: req.InputPath, OutputPath: ResolveOutputPath(req.InputPath, req.OutputFormat, req.OutputDir), Success: true}
}

func TestRunBatchRecoversPanics(t *testing.T) {
	rec := &recorder{}
	files := []string{"one.txt", "two.txt", "three.txt", "four.txt"}
	res := RunBatch(context.Background(), newStub("two.txt"), files, "md", t.TempDir(), DefaultOptions(), rec)

	if res.Succeeded != 3 || res.Attempted != 4 {
		t.Errorf("result = %+v", res)
	}
	if !IsKind(res.Outcomes[1].Err, KindDelegateFailure) {
		t.Errorf("panicking file outcome = %v", res.Outcomes[1].Err)
	}
	if !slices.Contains(rec.messages, "Error: boom") {
		t.Errorf("messages = %v", rec.messages)
	}
	if rec.summary != "Converted 3 of 4 files successfully" {
		t.Errorf("summary = %q", rec.summary)
	}
}

func TestRunBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	res := RunBatch(ctx, newStub(""), []string{"a.txt", "b.txt"}, "md", t.TempDir(), DefaultOptions(), rec)

	if !res.Canceled || res.Attempted != 0 || res.Succeeded != 0 {
		t.Errorf("result = %+v", res)
	}
	if want := "Converted 0 of 2 files successfully (canceled after 0 of 2)"; res.Summary() != want || rec.summary != want {
		t.Errorf("summary = %q", rec.summary)
	}
	for _, o := range res.Outcomes {
		if o.Kind() != KindCanceled {
			t.Errorf("%s kind = %v", o.InputPath, o.Kind())
		}
	}
}

func TestRunBatchEmpty(t *testing.T) {
	rec := &recorder{}
	res := RunBatch(context.Background(), newStub(""), nil, "md", t.TempDir(), DefaultOptions(), rec)
	if !rec.success || rec.summary != "Converted 0 of 0 files successfully" || res.Total != 0 {
		t.Errorf("empty batch: %+v %q", res, rec.summary)
	}
}

func TestParallelBatch(t *testing.T) {
	var files []string
	for i := 0; i < 20; i++ {
		files = append(files, filepath.Join("in", string(rune('a'+i))+".txt"))
	}
	stub := newStub("")
	stub.delay = time.Millisecond
	rec := &recorder{}

	e := New(WithWorkers(4))
	res, err := e.RunBatchWith(context.Background(), stub, files, "md", t.TempDir(), DefaultOptions(), rec)
	if err != nil {
		t.Fatal(err)
	}
	if res.Succeeded != 20 || !rec.success {
		t.Errorf("result = %+v", res)
	}
	if !slices.IsSorted(rec.percents) {
		t.Errorf("progress went backwards: %v", rec.percents)
	}
	for i, o := range res.Outcomes {
		if o.InputPath != files[i] {
			t.Errorf("outcome %d is %q, want %q", i, o.InputPath, files[i])
		}
	}
}

func TestStartJob(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"x.wav", "y.wav"} {
		p := filepath.Join(dir, name)
		touch(t, p)
		files = append(files, p)
	}

	runner := &fakeRunner{}
	e := New(WithRunner(runner))
	job, err := e.Start(context.Background(), files, "mp3", filepath.Join(dir, "out"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	var events []Event
	for ev := range job.Events() {
		events = append(events, ev)
	}
	res := job.Wait()

	if res.Succeeded != 2 || runner.callCount() != 2 {
		t.Errorf("result = %+v, calls = %d", res, runner.callCount())
	}
	if len(events) != 3 {
		t.Fatalf("events = %+v", events)
	}
	last := events[len(events)-1]
	if last.Kind != EventComplete || !last.Success || last.Message != "Converted 2 of 2 files successfully" {
		t.Errorf("last event = %+v", last)
	}
}

func TestJobCancel(t *testing.T) {
	stub := newStub("")
	stub.delay = 20 * time.Millisecond
	e := New()
	if err := e.RegisterConverter(stub); err != nil {
		t.Fatal(err)
	}
	files := make([]string, 50)
	for i := range files {
		files[i] = "f.txt"
	}
	job, err := e.Start(context.Background(), files, "md", t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	job.Cancel()
	res := job.Wait()
	if !res.Canceled || res.Attempted == res.Total {
		t.Errorf("canceled job result = %+v", res)
	}
}

func TestCheckTools(t *testing.T) {
	e := New(WithRunner(&fakeRunner{available: map[string]bool{"ffmpeg": true}}), WithOfficeBinary("soffice"))
	got := map[string]ToolStatus{}
	for _, s := range e.CheckTools() {
		got[s.Name] = s
	}
	if !got["ffmpeg"].Available || got["office"].Available || got["imagemagick"].Available {
		t.Errorf("tools = %+v", got)
	}
	if got["office"].Binary != "soffice" || got["imagemagick"].Binary != "magick" {
		t.Errorf("binaries = %+v", got)
	}
}
