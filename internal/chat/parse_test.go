package chat

import (
	"strings"
	"testing"
	"time"
)

func TestParseAndroidLine(t *testing.T) {
	msgs, err := Parse(strings.NewReader("11/01/24, 10:05 pm - Alice: see you tomorrow"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	m := msgs[0]
	if m.Sender != "Alice" || m.Content != "see you tomorrow" {
		t.Errorf("got sender=%q content=%q", m.Sender, m.Content)
	}
	if !m.HasTime {
		t.Fatal("timestamp not parsed")
	}
	want := time.Date(2024, 1, 11, 22, 5, 0, 0, time.UTC)
	if !m.Time.Equal(want) {
		t.Errorf("time = %v, want %v", m.Time, want)
	}
}

func TestParseIOSLine(t *testing.T) {
	msgs, err := Parse(strings.NewReader("[11/01/24, 10:05:11 pm] Bob: on my way"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	m := msgs[0]
	if m.Sender != "Bob" || m.Content != "on my way" {
		t.Errorf("got sender=%q content=%q", m.Sender, m.Content)
	}
	if !m.HasTime || m.Time.Second() != 11 {
		t.Errorf("seconds not parsed: %v (hasTime=%v)", m.Time, m.HasTime)
	}
}

func TestParseContinuationLines(t *testing.T) {
	transcript := strings.Join([]string{
		"11/01/24, 09:00 - Alice: first line",
		"second line",
		"third line",
		"11/01/24, 09:01 - Bob: ok",
	}, "\n")

	msgs, err := Parse(strings.NewReader(transcript))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if want := "first line\nsecond line\nthird line"; msgs[0].Content != want {
		t.Errorf("content = %q, want %q", msgs[0].Content, want)
	}
}

func TestParseSkipsBlankAndLeadingJunk(t *testing.T) {
	transcript := "\n\nMessages and calls are end-to-end encrypted.\n11/01/24, 09:00 - Alice: hi\n"
	msgs, err := Parse(strings.NewReader(transcript))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// The preamble line precedes any message, so it is dropped.
	if len(msgs) != 1 || msgs[0].Content != "hi" {
		t.Fatalf("got %+v, want single 'hi' message", msgs)
	}
}

func TestParseTimestampVariants(t *testing.T) {
	cases := []struct {
		date, clock string
		want        time.Time
	}{
		{"11/01/2024", "22:05", time.Date(2024, 1, 11, 22, 5, 0, 0, time.UTC)},
		{"11/01/24", "10:05 pm", time.Date(2024, 1, 11, 22, 5, 0, 0, time.UTC)},
		{"11/01/24", "10:05\u202fpm", time.Date(2024, 1, 11, 22, 5, 0, 0, time.UTC)},
		{"11/01/24", "10:05 p.m.", time.Date(2024, 1, 11, 22, 5, 0, 0, time.UTC)},
		{"11/01/24", "10:05:11 PM", time.Date(2024, 1, 11, 22, 5, 11, 0, time.UTC)},
	}
	for _, c := range cases {
		got, ok := parseTimestamp(c.date, c.clock)
		if !ok {
			t.Errorf("parseTimestamp(%q, %q) failed", c.date, c.clock)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("parseTimestamp(%q, %q) = %v, want %v", c.date, c.clock, got, c.want)
		}
	}
}

func TestParseTimestampUnparseable(t *testing.T) {
	if _, ok := parseTimestamp("31/31/24", "99:99"); ok {
		t.Error("nonsense timestamp reported as parsed")
	}
}

func TestFilterByRange(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC) }
	msgs := []Message{
		{Time: day(1), HasTime: true, Sender: "a", Content: "early"},
		{Time: day(5), HasTime: true, Sender: "b", Content: "inside"},
		{HasTime: false, Sender: "c", Content: "undated"},
		{Time: day(9), HasTime: true, Sender: "d", Content: "late"},
	}

	got := FilterByRange(msgs, day(4), day(6))

	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	if got[0].Content != "inside" || got[1].Content != "undated" {
		t.Errorf("unexpected survivors: %+v", got)
	}
}

func TestFilterByRangeInclusiveBounds(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	msgs := []Message{{Time: at, HasTime: true, Sender: "a", Content: "edge"}}

	if got := FilterByRange(msgs, at, at); len(got) != 1 {
		t.Errorf("message on the exact bound filtered out")
	}
}

func TestJoinText(t *testing.T) {
	msgs := []Message{
		{Sender: "Alice", Content: "hi"},
		{Sender: "Bob", Content: "hello\nthere"},
	}
	want := "Alice: hi\nBob: hello\nthere"
	if got := JoinText(msgs); got != want {
		t.Errorf("JoinText = %q, want %q", got, want)
	}
}
