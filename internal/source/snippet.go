package source

import (
	"unicode/utf8"

	"fortio.org/safecast"
)

// Snippet returns the literal source text covered by span. The second
// result is false when the span is synthetic or out of range; callers must
// treat that as "no information", never as an error.
func (fileSet *FileSet) Snippet(span Span) (string, bool) {
	if int(span.File) >= len(fileSet.files) {
		return "", false
	}
	f := &fileSet.files[span.File]
	if f.Flags&FileSynthetic != 0 {
		return "", false
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return "", false
	}
	if span.Start > span.End || span.End > lenContent {
		return "", false
	}
	return string(f.Content[span.Start:span.End]), true
}

// NextPoint returns the width-1 span covering the first textual unit after
// span's end. At end of file it returns an empty span just past the content,
// whose Snippet lookup reports no information.
func (fileSet *FileSet) NextPoint(span Span) Span {
	if int(span.File) >= len(fileSet.files) {
		return span.ShrinkToHi()
	}
	f := &fileSet.files[span.File]
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil || f.Flags&FileSynthetic != 0 || span.End >= lenContent {
		return Span{File: span.File, Start: span.End, End: span.End}
	}
	_, size := utf8.DecodeRune(f.Content[span.End:])
	width, err := safecast.Conv[uint32](size)
	if err != nil || width == 0 {
		width = 1
	}
	return Span{File: span.File, Start: span.End, End: span.End + width}
}

// PrevPoint returns the width-1 span covering the textual unit immediately
// before span's start, or an empty span at offset 0.
func (fileSet *FileSet) PrevPoint(span Span) Span {
	if int(span.File) >= len(fileSet.files) || span.Start == 0 {
		return span.ShrinkToLo()
	}
	f := &fileSet.files[span.File]
	if f.Flags&FileSynthetic != 0 {
		return span.ShrinkToLo()
	}
	_, size := utf8.DecodeLastRune(f.Content[:span.Start])
	width, err := safecast.Conv[uint32](size)
	if err != nil || width == 0 {
		width = 1
	}
	if width > span.Start {
		width = span.Start
	}
	return Span{File: span.File, Start: span.Start - width, End: span.Start}
}

// LineOf returns the 1-based line number holding the byte offset.
func (fileSet *FileSet) LineOf(file FileID, offset uint32) uint32 {
	if int(file) >= len(fileSet.files) {
		return 0
	}
	return toLineCol(fileSet.files[file].LineIdx, offset).Line
}

// IsSynthetic reports whether the span belongs to a synthetic file.
func (fileSet *FileSet) IsSynthetic(span Span) bool {
	if int(span.File) >= len(fileSet.files) {
		return false
	}
	return fileSet.files[span.File].Flags&FileSynthetic != 0
}
