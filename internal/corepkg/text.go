package corepkg

import "sort"

// TextRange is a half-open byte range [Start, End) into a file's UTF-8 text.
type TextRange struct {
	Start uint32
	End   uint32
}

// Len returns the number of bytes spanned by the range.
func (r TextRange) Len() uint32 { return r.End - r.Start }

// Contains reports whether offset lies within [Start, End).
func (r TextRange) Contains(offset uint32) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps reports whether r and other share at least one byte.
func (r TextRange) Overlaps(other TextRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// Position is an LSP-style cursor position: a zero-based line number and a
// UTF-16 column count within that line.
type Position struct {
	Line      uint32
	Character uint32
}

// LineIndex precomputes line start byte offsets so that (line, UTF-16
// column) positions can be converted to and from byte offsets. Internal
// Nova code works in UTF-8 byte offsets everywhere except at the LSP
// boundary, where columns are UTF-16 code units (spec.md §3).
type LineIndex struct {
	// lineStarts[i] is the byte offset of the first byte of line i.
	lineStarts []uint32
	text       []byte
}

// NewLineIndex builds a LineIndex over text. Lines are delimited by '\n';
// a trailing '\r' is treated as part of the preceding line's content for
// offset purposes (it is not stripped).
func NewLineIndex(text []byte) *LineIndex {
	starts := []uint32{0}
	for i, b := range text {
		if b == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return &LineIndex{lineStarts: starts, text: text}
}

// LineCount returns the number of lines in the indexed text.
func (l *LineIndex) LineCount() int { return len(l.lineStarts) }

// LineStart returns the byte offset at which line (0-based) begins.
func (l *LineIndex) LineStart(line uint32) uint32 {
	if int(line) >= len(l.lineStarts) {
		return uint32(len(l.text))
	}
	return l.lineStarts[line]
}

// LineEnd returns the byte offset of the end of line (0-based), excluding
// its trailing newline.
func (l *LineIndex) LineEnd(line uint32) uint32 {
	if int(line+1) < len(l.lineStarts) {
		end := l.lineStarts[line+1]
		if end > 0 && l.text[end-1] == '\n' {
			end--
		}
		if end > 0 && end-1 >= l.lineStarts[line] && l.text[end-1] == '\r' {
			end--
		}
		return end
	}
	return uint32(len(l.text))
}

// LineAt returns the 0-based line number containing byte offset.
func (l *LineIndex) LineAt(offset uint32) uint32 {
	i := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	})
	return uint32(i - 1)
}

// OffsetForPosition converts a (line, UTF-16 column) Position to a byte
// offset into the indexed text.
func (l *LineIndex) OffsetForPosition(pos Position) uint32 {
	lineStart := l.LineStart(pos.Line)
	lineEndOffset := l.LineEnd(pos.Line)
	lineBytes := l.text[lineStart:lineEndOffset]

	var utf16Count uint32
	byteOffset := 0
	for byteOffset < len(lineBytes) {
		if utf16Count >= pos.Character {
			break
		}
		r, size := decodeRune(lineBytes[byteOffset:])
		byteOffset += size
		if r > 0xFFFF {
			utf16Count += 2
		} else {
			utf16Count++
		}
	}
	return lineStart + uint32(byteOffset)
}

// PositionForOffset converts a byte offset into the indexed text to a
// (line, UTF-16 column) Position.
func (l *LineIndex) PositionForOffset(offset uint32) Position {
	line := l.LineAt(offset)
	lineStart := l.LineStart(line)
	lineBytes := l.text[lineStart:offset]

	var utf16Count uint32
	byteOffset := 0
	for byteOffset < len(lineBytes) {
		r, size := decodeRune(lineBytes[byteOffset:])
		byteOffset += size
		if r > 0xFFFF {
			utf16Count += 2
		} else {
			utf16Count++
		}
	}
	return Position{Line: line, Character: utf16Count}
}

// decodeRune decodes the first UTF-8 rune in b, tolerating invalid bytes
// by treating them as single-byte runes (matches LSP clients' lenient
// behavior on non-UTF-8-clean buffers during edits).
func decodeRune(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0, 0
	}
	c := b[0]
	switch {
	case c < 0x80:
		return rune(c), 1
	case c&0xE0 == 0xC0 && len(b) >= 2:
		return (rune(c&0x1F) << 6) | rune(b[1]&0x3F), 2
	case c&0xF0 == 0xE0 && len(b) >= 3:
		return (rune(c&0x0F) << 12) | (rune(b[1]&0x3F) << 6) | rune(b[2]&0x3F), 3
	case c&0xF8 == 0xF0 && len(b) >= 4:
		return (rune(c&0x07) << 18) | (rune(b[1]&0x3F) << 12) | (rune(b[2]&0x3F) << 6) | rune(b[3]&0x3F), 4
	default:
		return rune(c), 1
	}
}
