package textutil

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

var whitespaceExpr = regexp.MustCompile(`\s+`)

// CleanFeedText normalizes text coming from RSS entries: unicode
// normalization, HTML markup removal, and whitespace collapsing.
func CleanFeedText(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFKC.String(text)
	text = StripHTML(text)
	text = whitespaceExpr.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CleanReportBody normalizes a generated report without touching its HTML.
func CleanReportBody(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.TrimSpace(text)
}

// StripHTML extracts the text content from an HTML fragment. Input that
// fails to parse is returned untouched.
func StripHTML(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return doc.Text()
}

// Truncate caps the string at n runes without splitting a rune.
func Truncate(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// DescribeSecret renders a value for startup logs: secrets are reported
// by length only.
func DescribeSecret(value string) string {
	if value == "" {
		return "(unset)"
	}
	return strings.Repeat("*", 6) + " [len=" + strconv.Itoa(len(value)) + "]"
}
