package game

import "strings"

// wrapText breaks s into lines of at most width characters, preserving
// existing newlines. DebugPrintAt has no wrapping of its own.
func wrapText(s string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}
