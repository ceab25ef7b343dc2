package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		buffer.WriteByte(' ')
		return
	}
	if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText strips non-printable characters and collapses runs of whitespace.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.Trim(s, " \t\n")
}

const maxSummaryLength = 500

// Summarize renders an html (or xml, or plain text) body into a short single line
// of visible text, prefixed by the page title if there is one.
// It is used to describe upstream pages that could not be understood.
func Summarize(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return truncate(CleanText(string(body)))
	}

	title := CleanText(doc.Find("title").First().Text())
	var text string
	if len(doc.Nodes) > 0 {
		bodySel := doc.Find("body")
		if bodySel.Length() > 0 {
			text = CleanText(GetText(bodySel.Nodes[0]))
		} else {
			text = CleanText(GetText(doc.Nodes[0]))
		}
	}

	if title != "" && !strings.HasPrefix(text, title) {
		text = title + ": " + text
	}
	return truncate(text)
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxSummaryLength {
		return s
	}
	return string(runes[:maxSummaryLength]) + "..."
}
