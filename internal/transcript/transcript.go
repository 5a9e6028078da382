// Package transcript reads plain-text chat transcripts so they can be replayed
// through the conversational path.
//
// A transcript holds one user turn per line. Blank lines and lines spoken by
// the assistant ("assistant:" or "ai:") are skipped; a leading "user:" or
// "you:" speaker tag is stripped.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

var (
	userTags      = []string{"user:", "you:"}
	assistantTags = []string{"assistant:", "ai:"}
)

// Turns decodes r and returns its user turns in order.
func Turns(r io.Reader) ([]string, error) {
	ur, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	sc := bufio.NewScanner(ur)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var turns []string

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if _, ok := cutTag(line, assistantTags); ok {
			continue
		}

		if rest, ok := cutTag(line, userTags); ok {
			line = rest
		}

		if line != "" {
			turns = append(turns, line)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	return turns, nil
}

func cutTag(line string, tags []string) (string, bool) {
	lower := strings.ToLower(line)

	for _, tag := range tags {
		if strings.HasPrefix(lower, tag) {
			return strings.TrimSpace(line[len(tag):]), true
		}
	}

	return line, false
}
