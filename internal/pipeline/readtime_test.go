package pipeline

import (
	"strings"
	"testing"
)

func TestEstimateReadingTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wpm         int
		wantMinutes int
		wantText    string
	}{
		{
			name:        "empty body reads one minute",
			body:        "",
			wpm:         200,
			wantMinutes: 1,
			wantText:    "1 min read",
		},
		{
			name:        "short body reads one minute",
			body:        "Just a few words here.",
			wpm:         200,
			wantMinutes: 1,
			wantText:    "1 min read",
		},
		{
			name:        "exactly one minute",
			body:        strings.Repeat("word ", 200),
			wpm:         200,
			wantMinutes: 1,
			wantText:    "1 min read",
		},
		{
			name:        "one word over rounds up",
			body:        strings.Repeat("word ", 201),
			wpm:         200,
			wantMinutes: 2,
			wantText:    "2 min read",
		},
		{
			name:        "four hundred words at two hundred wpm",
			body:        strings.Repeat("word ", 400),
			wpm:         200,
			wantMinutes: 2,
			wantText:    "2 min read",
		},
		{
			name:        "custom rate",
			body:        strings.Repeat("word ", 300),
			wpm:         100,
			wantMinutes: 3,
			wantText:    "3 min read",
		},
		{
			name:        "non-positive rate falls back to default",
			body:        strings.Repeat("word ", 400),
			wpm:         0,
			wantMinutes: 2,
			wantText:    "2 min read",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := EstimateReadingTime(tt.body, tt.wpm)
			if got.Minutes != tt.wantMinutes {
				t.Errorf("Minutes = %d, want %d", got.Minutes, tt.wantMinutes)
			}
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
		})
	}
}

func TestEstimateReadingTime_StripsCodeFences(t *testing.T) {
	t.Parallel()

	prose := strings.Repeat("word ", 50)
	code := "```apex\n" + strings.Repeat("Integer i = 0;\n", 500) + "```\n"

	withCode := EstimateReadingTime(prose+code, 200)
	withoutCode := EstimateReadingTime(prose, 200)

	if withCode.Words != withoutCode.Words {
		t.Errorf("code fence contributed to word count: %d != %d",
			withCode.Words, withoutCode.Words)
	}
}

func TestEstimateReadingTime_StripsMarkdownSyntax(t *testing.T) {
	t.Parallel()

	// Each construct should count only its label text.
	body := "# Heading\n" +
		"Some **bold** and *italic* words with `inline()` code.\n" +
		"A [link label](https://example.com) and ![alt text](img.png).\n" +
		"> quoted line\n"

	got := EstimateReadingTime(body, 200)

	// heading(1) + some bold and italic words with code(7) +
	// a link label and alt text(6) + quoted line(2)
	if want := 16; got.Words != want {
		t.Errorf("Words = %d, want %d", got.Words, want)
	}
}

func TestEstimateReadingTime_Monotonic(t *testing.T) {
	t.Parallel()

	short := EstimateReadingTime(strings.Repeat("word ", 100), 200)
	long := EstimateReadingTime(strings.Repeat("word ", 1000), 200)

	if long.Minutes < short.Minutes {
		t.Errorf("longer body estimated shorter: %d < %d",
			long.Minutes, short.Minutes)
	}
}

func TestEstimateReadingTime_Deterministic(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("lorem ipsum dolor ", 123)

	first := EstimateReadingTime(body, 200)
	for i := 0; i < 5; i++ {
		if got := EstimateReadingTime(body, 200); got != first {
			t.Fatalf("estimate changed between runs: %+v != %+v", got, first)
		}
	}
}
