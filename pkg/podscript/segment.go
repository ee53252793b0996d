package podscript

import "unicode/utf8"

// Synthesis service limits, in characters (runes).
const (
	// LineSoftLimit is the target length when packing sentences into
	// one dialogue line.
	LineSoftLimit = 280

	// LineHardLimit is the longest line accepted without splitting.
	LineHardLimit = 300

	// ScriptCharLimit is the total dialogue size above which the script
	// must be trimmed.
	ScriptCharLimit = 10000

	// ScriptTrimTarget is the total size trimming reduces to, leaving
	// headroom under ScriptCharLimit.
	ScriptTrimTarget = 9800
)

// Line is one synthesis-ready dialogue line.
type Line struct {
	Voice string
	Text  string
}

// Segment converts parsed turns into dialogue lines no longer than the
// service's per-line limit.
//
// A turn within LineHardLimit becomes a single line. Longer turns are split
// at sentence boundaries and repacked greedily up to LineSoftLimit; a single
// sentence longer than the soft limit is emitted whole rather than cut
// mid-sentence.
func Segment(turns []Turn) []Line {
	var lines []Line
	for _, turn := range turns {
		if utf8.RuneCountInString(turn.Text) <= LineHardLimit {
			lines = append(lines, Line{Voice: turn.Voice, Text: turn.Text})
			continue
		}

		var chunk []rune
		for _, sentence := range splitSentences(turn.Text) {
			if len(chunk) > 0 && len(chunk)+len(sentence) > LineSoftLimit {
				lines = append(lines, Line{Voice: turn.Voice, Text: string(chunk)})
				chunk = chunk[:0]
			}
			chunk = append(chunk, sentence...)
		}
		if len(chunk) > 0 {
			lines = append(lines, Line{Voice: turn.Voice, Text: string(chunk)})
		}
	}
	return lines
}

// splitSentences cuts text after each sentence-ending punctuation mark,
// keeping the mark with its sentence. Newlines also end a sentence but are
// not kept.
func splitSentences(text string) [][]rune {
	var (
		pieces  [][]rune
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			pieces = append(pieces, current)
			current = nil
		}
	}
	for _, r := range text {
		switch r {
		case '\n':
			flush()
		case '。', '！', '？', '!', '?', '；', ';':
			current = append(current, r)
			flush()
		default:
			current = append(current, r)
		}
	}
	flush()
	return pieces
}

// Trim drops trailing lines until the script's total size fits.
//
// When the rune total over all lines exceeds limit, Trim keeps the longest
// prefix of whole lines whose total is at most target, and reports how many
// runes were dropped. Scripts within limit are returned unchanged.
func Trim(lines []Line, limit, target int) ([]Line, int) {
	total := 0
	for _, line := range lines {
		total += utf8.RuneCountInString(line.Text)
	}
	if total <= limit {
		return lines, 0
	}

	kept := 0
	running := 0
	for _, line := range lines {
		n := utf8.RuneCountInString(line.Text)
		if running+n > target {
			break
		}
		running += n
		kept++
	}
	return lines[:kept], total - running
}
