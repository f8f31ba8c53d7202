package source

import "testing"

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("multi.fe", []byte("alpha\nbeta\ngamma\n"))

	tests := []struct {
		name      string
		span      Span
		wantStart LineCol
		wantEnd   LineCol
	}{
		{
			name:      "first line",
			span:      Span{File: id, Start: 0, End: 5},
			wantStart: LineCol{Line: 1, Col: 1},
			wantEnd:   LineCol{Line: 1, Col: 6},
		},
		{
			name:      "second line",
			span:      Span{File: id, Start: 6, End: 10},
			wantStart: LineCol{Line: 2, Col: 1},
			wantEnd:   LineCol{Line: 2, Col: 5},
		},
		{
			name:      "newline belongs to the line it ends",
			span:      Span{File: id, Start: 5, End: 6},
			wantStart: LineCol{Line: 1, Col: 6},
			wantEnd:   LineCol{Line: 2, Col: 1},
		},
		{
			name:      "third line",
			span:      Span{File: id, Start: 11, End: 16},
			wantStart: LineCol{Line: 3, Col: 1},
			wantEnd:   LineCol{Line: 3, Col: 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := fs.Resolve(tt.span)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Resolve(%v) = %v, %v; want %v, %v",
					tt.span, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.fe", []byte("one\ntwo\nthree"))
	f := fs.Get(id)

	tests := []struct {
		lineNum uint32
		want    string
	}{
		{0, ""},
		{1, "one"},
		{2, "two"},
		{3, "three"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.lineNum); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.lineNum, got, tt.want)
		}
	}
}

func TestGetLineTrailingNewline(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("trail.fe", []byte("only\n")))
	if got := f.GetLine(1); got != "only" {
		t.Errorf("GetLine(1) = %q", got)
	}
	if got := f.GetLine(2); got != "" {
		t.Errorf("GetLine(2) = %q, want empty past EOF", got)
	}
}

func TestGetLatestPrefersNewestID(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("a.fe", []byte("old"))
	second := fs.AddVirtual("a.fe", []byte("new"))

	id, ok := fs.GetLatest("a.fe")
	if !ok || id != second {
		t.Fatalf("GetLatest = %v, %v; want the re-added file %v", id, ok, second)
	}
	if string(fs.Get(id).Content) != "new" {
		t.Errorf("content = %q", fs.Get(id).Content)
	}
}

func TestGetLatestNormalizesPath(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("dir/sub/../file.fe", []byte("x"))
	got, ok := fs.GetLatest("dir/file.fe")
	if !ok || got != id {
		t.Errorf("GetLatest after normalization = %v, %v", got, ok)
	}
}

func TestFormatPath(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("pkg/scenario.fe", []byte("")))

	if got := f.FormatPath("basename", ""); got != "scenario.fe" {
		t.Errorf("basename = %q", got)
	}
	// Short relative paths stay untouched in auto mode.
	if got := f.FormatPath("auto", ""); got != "pkg/scenario.fe" {
		t.Errorf("auto = %q", got)
	}
	if got := f.FormatPath("", ""); got != "pkg/scenario.fe" {
		t.Errorf("default mode = %q", got)
	}
}

func TestAddRecordsFlags(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("v.fe", []byte("text"))
	if fs.Get(id).Flags&FileVirtual == 0 {
		t.Error("virtual files must carry FileVirtual")
	}

	synth := fs.AddSynthetic("expansion")
	flags := fs.Get(synth).Flags
	if flags&FileSynthetic == 0 || flags&FileVirtual == 0 {
		t.Errorf("synthetic flags = %v", flags)
	}
}

func TestNormalizeCRLF(t *testing.T) {
	got, changed := normalizeCRLF([]byte("a\r\nb\rc\r\n"))
	if !changed {
		t.Fatal("expected replacement")
	}
	if string(got) != "a\nb\rc\n" {
		t.Errorf("normalized = %q, lone \\r must survive", got)
	}

	same, changed := normalizeCRLF([]byte("plain\n"))
	if changed || string(same) != "plain\n" {
		t.Errorf("clean input must pass through, got %q (%v)", same, changed)
	}
}

func TestRemoveBOM(t *testing.T) {
	got, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'})
	if !had || string(got) != "hi" {
		t.Errorf("removeBOM = %q, %v", got, had)
	}
	short, had := removeBOM([]byte{0xEF})
	if had || len(short) != 1 {
		t.Errorf("short input must pass through, got %v, %v", short, had)
	}
}
