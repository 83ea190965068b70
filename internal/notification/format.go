package notification

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"CryptoScannerBot/internal/models"
)

// MaxMessageLength is the Bot API limit for a single message text.
const MaxMessageLength = 4096

const (
	titleManual    = "<b>🔍 Scan Results:</b>"
	titleScheduled = "<b>⏰ Scheduled Scan Results:</b>"
	noMatches      = "None"
	scanFailed     = "error"
)

// FormatReport renders a report as Telegram HTML, one line per interval.
func FormatReport(report *models.Report) string {
	var b strings.Builder

	if report.Trigger == models.TriggerScheduled {
		b.WriteString(titleScheduled)
	} else {
		b.WriteString(titleManual)
	}
	b.WriteString("\n\n")

	for _, res := range report.Results {
		fmt.Fprintf(&b, "<b>%s:</b> %s\n", IntervalLabel(res.Interval), formatSymbols(res))
	}
	return b.String()
}

func formatSymbols(res models.MatchResult) string {
	if res.Err != nil {
		return scanFailed
	}
	if len(res.Symbols) == 0 {
		return noMatches
	}
	return html.EscapeString(strings.Join(res.Symbols, ", "))
}

var intervalUnits = map[byte]string{
	'm': "Minute",
	'h': "Hour",
	'd': "Day",
	'w': "Week",
	'M': "Month",
}

// IntervalLabel turns "15m" into "15 Minute". Unknown forms are returned
// unchanged.
func IntervalLabel(interval string) string {
	if len(interval) < 2 {
		return interval
	}
	n, err := strconv.Atoi(interval[:len(interval)-1])
	if err != nil {
		return interval
	}
	unit, ok := intervalUnits[interval[len(interval)-1]]
	if !ok {
		return interval
	}
	return fmt.Sprintf("%d %s", n, unit)
}

// SplitMessage breaks text into chunks of at most limit characters. Chunks
// end on line breaks; a longer line is split between its comma separated
// symbols so HTML tags and entities stay whole.
func SplitMessage(text string, limit int) []string {
	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if chunk := strings.TrimRight(cur.String(), "\n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		cur.Reset()
		curLen = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for _, piece := range splitLine(line, limit) {
			n := utf8.RuneCountInString(piece)
			if curLen+n > limit {
				flush()
			}
			cur.WriteString(piece)
			curLen += n
		}
	}
	flush()
	return chunks
}

func splitLine(line string, limit int) []string {
	if utf8.RuneCountInString(line) <= limit {
		return []string{line}
	}

	var (
		pieces []string
		cur    strings.Builder
	)
	for _, part := range strings.SplitAfter(line, ", ") {
		if cur.Len() > 0 && utf8.RuneCountInString(cur.String()+part) > limit {
			pieces = append(pieces, strings.TrimSuffix(cur.String(), ", ")+"\n")
			cur.Reset()
		}
		for utf8.RuneCountInString(part) > limit {
			cut := runePrefix(part, limit)
			pieces = append(pieces, cut)
			part = part[len(cut):]
		}
		cur.WriteString(part)
	}
	if cur.Len() > 0 {
		pieces = append(pieces, cur.String())
	}
	return pieces
}

func runePrefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
