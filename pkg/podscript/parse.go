package podscript

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoSpeakers is returned by Parse when no line of the script carries a
// recognizable speaker marker.
var ErrNoSpeakers = errors.New("podscript: no speaker-marked lines found")

// Turn is a maximal run of consecutive lines spoken by the same host.
type Turn struct {
	// Voice is the synthesis voice bound to this turn's speaker marker.
	Voice string

	// Text is the turn's dialogue with markers stripped and
	// continuation lines joined.
	Text string
}

// markerPattern matches the speaker markers accepted at the start of a line:
//
//	A:  B：  【大意】  **咪仔**:  小雷:
//
// Group 1-4 capture the marker in its variant forms, group 5 the rest of
// the line.
var markerPattern = regexp.MustCompile(`^(?:([ABab])\s*[:：]|【([^】]+)】|\*\*([^*]+)\*\*\s*[:：]?|([^\s:：*【]{1,12})\s*[:：])\s*(.*)$`)

// reservedMarkers are marker spellings with a fixed host binding,
// independent of appearance order.
var reservedMarkers = map[string]int{
	"A":    0,
	"a":    0,
	"甲":    0,
	"主持人A": 0,
	"主持人a": 0,
	"B":    1,
	"b":    1,
	"乙":    1,
	"主持人B": 1,
	"主持人b": 1,
}

// Parse splits a dialogue script into speaker turns.
//
// Each line may begin with a speaker marker; lines without one continue the
// current speaker's turn. The markers "A"/"甲"/"主持人A" always bind to
// voiceA and "B"/"乙"/"主持人B" to voiceB; any other marker names bind to
// voiceA then voiceB in order of first appearance, alternating beyond two.
// Consecutive turns by the same voice are merged.
func Parse(text, voiceA, voiceB string) ([]Turn, error) {
	voices := [2]string{voiceA, voiceB}
	bindings := make(map[string]int)

	var turns []Turn
	appendText := func(voice, s string) {
		if s == "" {
			return
		}
		if n := len(turns); n > 0 && turns[n-1].Voice == voice {
			turns[n-1].Text += s
			return
		}
		turns = append(turns, Turn{Voice: voice, Text: s})
	}

	current := -1 // host index of the open turn, -1 before the first marker
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		m := markerPattern.FindStringSubmatch(line)
		if m == nil {
			// Continuation of the current speaker; text before the
			// first marker has no speaker and is dropped.
			if current >= 0 {
				appendText(voices[current], line)
			}
			continue
		}

		marker := firstNonEmpty(m[1], m[2], m[3], m[4])
		current = bindMarker(marker, bindings)
		appendText(voices[current], strings.TrimSpace(m[5]))
	}

	if len(turns) == 0 {
		return nil, ErrNoSpeakers
	}
	return turns, nil
}

// bindMarker resolves a marker spelling to host 0 or 1, recording
// first-appearance bindings for non-reserved names.
func bindMarker(marker string, bindings map[string]int) int {
	if host, ok := reservedMarkers[marker]; ok {
		return host
	}
	if host, ok := bindings[marker]; ok {
		return host
	}
	host := len(bindings) % 2
	bindings[marker] = host
	return host
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
