// Package chat parses exported WhatsApp transcripts into timestamped
// messages and filters them by date range.
package chat

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"time"
)

// Message is one transcript entry. Continuation lines of a multi-line
// message are folded into Content. HasTime is false when the timestamp
// could not be parsed; such messages always pass range filters.
type Message struct {
	Time    time.Time
	HasTime bool
	Sender  string
	Content string
}

var linePatterns = []*regexp.Regexp{
	// Android style: 11/01/24, 10:05 pm - Name: Message
	regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}),?\s+(\d{1,2}:\d{2}(?:\s?[APMapm\.]{2,4})?)\s+-\s+([^:]+):\s+(.*)$`),
	// iOS style: [11/01/24, 10:05:11 pm] Name: Message
	regexp.MustCompile(`^\[?(\d{1,2}/\d{1,2}/\d{2,4}),?\s+(\d{1,2}:\d{2}(?::\d{2})?(?:\s?[APMapm\.]{2,4})?)\]?\s+([^:]+):\s+(.*)$`),
}

var dateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"1/2/2006",
	"1/2/06",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04:05 PM",
	"3:04PM",
}

// Parse reads a transcript line by line. Lines matching neither pattern are
// treated as continuations of the previous message.
func Parse(r io.Reader) ([]Message, error) {
	var messages []Message

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		matched := false
		for _, pattern := range linePatterns {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			ts, ok := parseTimestamp(m[1], m[2])
			messages = append(messages, Message{
				Time:    ts,
				HasTime: ok,
				Sender:  strings.TrimSpace(m[3]),
				Content: strings.TrimSpace(m[4]),
			})
			matched = true
			break
		}

		if !matched && len(messages) > 0 {
			messages[len(messages)-1].Content += "\n" + raw
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// parseTimestamp tries every date x time layout combination after
// normalizing the quirks WhatsApp exports carry (narrow no-break spaces,
// dotted meridiems, lowercase am/pm).
func parseTimestamp(dateStr, timeStr string) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	ts := strings.TrimSpace(timeStr)
	ts = strings.ReplaceAll(ts, "\u202f", " ")
	ts = strings.ReplaceAll(ts, ".", "")
	ts = strings.ToUpper(ts)

	for _, dl := range dateLayouts {
		for _, tl := range timeLayouts {
			if t, err := time.Parse(dl+" "+tl, dateStr+" "+ts); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// FilterByRange keeps messages with timestamps inside [from, to], inclusive.
// Messages without a parsed timestamp are always kept.
func FilterByRange(messages []Message, from, to time.Time) []Message {
	var out []Message
	for _, m := range messages {
		if !m.HasTime || (!m.Time.Before(from) && !m.Time.After(to)) {
			out = append(out, m)
		}
	}
	return out
}

// JoinText renders messages as "Sender: Content" lines, the form handed to
// the summarization model.
func JoinText(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Sender)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}
