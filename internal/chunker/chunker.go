package chunker

import "strings"

// Split breaks extracted text into line chunks: one chunk per source
// line, blank and whitespace-only lines dropped, order preserved. Kept
// lines are stored verbatim, untrimmed.
func Split(text string) []string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		chunks = append(chunks, line)
	}
	return chunks
}
