package pipeline

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/ppiankov/claimcheck/internal/model"
)

// Article is the readable form of an HTML document
type Article struct {
	Title    string
	Content  string
	Readable bool // False when Content is the full-body fallback
}

// minReadableChars is the paragraph text a candidate needs to count as main content
const minReadableChars = 140

var titlePolicy = bluemonday.StrictPolicy()

// boilerplateTokens mark class/id values of containers that are never main content
var boilerplateTokens = map[string]bool{
	"ad": true, "ads": true, "advert": true, "advertisement": true, "sponsor": true, "sponsored": true,
	"sidebar": true, "menu": true, "navbar": true, "nav": true, "breadcrumb": true, "breadcrumbs": true,
	"comment": true, "comments": true, "share": true, "social": true, "related": true,
	"newsletter": true, "popup": true, "modal": true, "footer": true, "masthead": true,
}

// ReadableText extracts the title and main content of an HTML document.
// The readability tier scores containers by paragraph text and link density;
// if it fails or finds nothing, the visible text of the whole body is used.
func ReadableText(document string) Article {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil || doc == nil {
		return Article{Title: model.DefaultTitle}
	}

	article := Article{Title: pageTitle(doc)}

	content, err := readableContent(doc)
	if err == nil && content != "" {
		article.Content = content
		article.Readable = true
		return article
	}

	article.Content = bodyText(doc)
	return article
}

// readableContent runs the readability tier, converting a panic into an error
func readableContent(doc *html.Node) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("readability: %v", r)
		}
	}()

	best := bestCandidate(doc)
	if best == nil {
		return "", nil
	}

	var b strings.Builder
	collectText(&b, best, true)
	return normalizeText(b.String()), nil
}

// bestCandidate scores containers by the paragraphs they hold.
// A paragraph credits its nearest container fully and the next one up by half.
func bestCandidate(doc *html.Node) *html.Node {
	scores := make(map[*html.Node]float64)
	var order []*html.Node

	credit := func(n *html.Node, score float64) {
		if _, seen := scores[n]; !seen {
			order = append(order, n)
			scores[n] = containerBonus(n)
		}
		scores[n] += score
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipped(n) {
			return
		}
		if n.Type == html.ElementNode && isParagraph(n) {
			text := strings.TrimSpace(innerText(n))
			if len([]rune(text)) >= 25 {
				score := 1 + float64(strings.Count(text, ",")) + min(float64(len([]rune(text)))/100, 3)
				if parent := containerOf(n.Parent); parent != nil {
					credit(parent, score)
					if grand := containerOf(parent.Parent); grand != nil {
						credit(grand, score/2)
					}
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var (
		best      *html.Node
		bestScore float64
	)
	for _, n := range order {
		textLen := len([]rune(strings.TrimSpace(innerText(n))))
		if textLen < minReadableChars {
			continue
		}
		score := scores[n] * (1 - linkDensity(n, textLen))
		if best == nil || score > bestScore {
			best, bestScore = n, score
		}
	}
	return best
}

// containerOf returns the nearest ancestor-or-self that can hold main content
func containerOf(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.Data {
		case "article", "main", "section", "div", "td", "blockquote":
			return n
		case "body", "html":
			return nil
		}
		if attr(n, "role") == "main" {
			return n
		}
	}
	return nil
}

func containerBonus(n *html.Node) float64 {
	if attr(n, "role") == "main" {
		return 10
	}
	switch n.Data {
	case "article", "main":
		return 10
	case "div":
		return 5
	case "section", "td", "blockquote":
		return 3
	}
	return 0
}

func isParagraph(n *html.Node) bool {
	switch n.Data {
	case "p", "pre", "li", "dd":
		return true
	}
	return false
}

func linkDensity(n *html.Node, textLen int) float64 {
	if textLen == 0 {
		return 1
	}
	linkLen := 0
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && c.Data == "a" {
			linkLen += len([]rune(strings.TrimSpace(innerText(c))))
			return
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return float64(linkLen) / float64(textLen)
}

// skipped reports elements that never contribute to main content
func skipped(n *html.Node) bool {
	switch n.Data {
	case "script", "style", "noscript", "iframe", "template", "svg",
		"nav", "header", "footer", "aside", "form", "button", "select":
		return true
	}
	return isBoilerplate(n)
}

func isBoilerplate(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key != "id" && a.Key != "class" {
			continue
		}
		val := strings.ToLower(a.Val)
		if strings.Contains(val, "cookie") || strings.Contains(val, "consent") || strings.Contains(val, "gdpr") {
			return true
		}
		for _, tok := range strings.FieldsFunc(val, func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
		}) {
			if boilerplateTokens[tok] {
				return true
			}
		}
	}
	return false
}

// innerText concatenates text below n, skipping non-content elements
func innerText(n *html.Node) string {
	var b strings.Builder
	collectText(&b, n, true)
	return b.String()
}

// collectText writes the text below n, breaking lines at block elements.
// With readable set, boilerplate is skipped as well as invisible elements.
func collectText(b *strings.Builder, n *html.Node, readable bool) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template", "head":
			return
		}
		if readable && skipped(n) {
			return
		}
	}

	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}

	block := n.Type == html.ElementNode && isBlock(n.Data)
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c, readable)
	}
	if block {
		b.WriteByte('\n')
	}
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "main", "br", "hr", "li", "ul", "ol", "dl", "dt", "dd",
		"h1", "h2", "h3", "h4", "h5", "h6", "pre", "blockquote", "table", "tr", "td", "th",
		"figure", "figcaption", "header", "footer", "nav", "aside", "body":
		return true
	}
	return false
}

// bodyText returns the visible text of the whole <body>
func bodyText(doc *html.Node) string {
	body := findFirst(doc, "body")
	if body == nil {
		body = doc
	}
	var b strings.Builder
	collectText(&b, body, false)
	return normalizeText(b.String())
}

// pageTitle tries <title>, then og:title, then the first <h1>
func pageTitle(doc *html.Node) string {
	var candidates []string

	if t := findFirst(doc, "title"); t != nil {
		candidates = append(candidates, textOf(t))
	}
	if og := findMeta(doc, "og:title"); og != "" {
		candidates = append(candidates, og)
	}
	if h1 := findFirst(doc, "h1"); h1 != nil {
		candidates = append(candidates, textOf(h1))
	}

	for _, c := range candidates {
		if title := sanitizeTitle(c); title != "" {
			return title
		}
	}
	return model.DefaultTitle
}

// sanitizeTitle strips any markup and collapses whitespace
func sanitizeTitle(s string) string {
	clean := html.UnescapeString(titlePolicy.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return b.String()
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findMeta(n *html.Node, property string) string {
	if n.Type == html.ElementNode && n.Data == "meta" {
		if attr(n, "property") == property || attr(n, "name") == property {
			return attr(n, "content")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if v := findMeta(c, property); v != "" {
			return v
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// normalizeText collapses whitespace within lines and separates paragraphs by a blank line
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if collapsed := strings.Join(strings.Fields(line), " "); collapsed != "" {
			out = append(out, collapsed)
		}
	}
	return strings.Join(out, "\n\n")
}
