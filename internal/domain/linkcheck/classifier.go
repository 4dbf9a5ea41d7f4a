package linkcheck

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxHaystackRunes bounds how much page text is scanned.
const MaxHaystackRunes = 12000

// Verdict explains a classification decision.
type Verdict struct {
	Relevant bool
	Hits     []string
	Veto     string
}

type keyword struct {
	term    string
	pattern *regexp.Regexp
}

// Classifier scores page text against the category keyword sets.
//
// Text extraction is a heuristic: pages that render their content with
// JavaScript expose little text and are rejected as irrelevant.
type Classifier struct {
	positive map[Category][]keyword
	negative []keyword
	minHits  map[Category]int
	maxRunes int
}

// NewClassifier compiles whole-word matchers for every policy keyword.
func NewClassifier(policies PolicySet) *Classifier {
	c := &Classifier{
		positive: make(map[Category][]keyword),
		negative: compileKeywords(policies.NegativeKeywords()),
		minHits:  make(map[Category]int),
		maxRunes: MaxHaystackRunes,
	}
	for _, category := range policies.Categories() {
		p, _ := policies.Lookup(category)
		c.positive[category] = compileKeywords(p.PositiveKeywords)
		c.minHits[category] = p.MinKeywordHits
	}
	return c
}

// IsRelevant reports whether html belongs to the category's topic.
func (c *Classifier) IsRelevant(category Category, html, finalURL string) bool {
	return c.Evaluate(category, html, finalURL).Relevant
}

// Evaluate classifies the page and reports which terms decided it. A negative
// keyword anywhere in the haystack vetoes regardless of positive hits.
func (c *Classifier) Evaluate(category Category, html, finalURL string) Verdict {
	keywords, ok := c.positive[category]
	if !ok {
		return Verdict{}
	}
	haystack := c.haystack(html, finalURL)
	if haystack == "" {
		return Verdict{}
	}
	for _, kw := range c.negative {
		if kw.pattern.MatchString(haystack) {
			return Verdict{Veto: kw.term}
		}
	}
	var hits []string
	for _, kw := range keywords {
		if kw.pattern.MatchString(haystack) {
			hits = append(hits, kw.term)
		}
	}
	return Verdict{Relevant: len(hits) >= c.minHits[category], Hits: hits}
}

func (c *Classifier) haystack(html, finalURL string) string {
	title, description, body := extractText(html)
	parts := []string{title, description, urlWords(finalURL), body}
	text := strings.ToLower(collapseSpace(strings.Join(parts, " ")))
	return truncateRunes(text, c.maxRunes)
}

// extractText returns the title, meta description and visible body text.
func extractText(html string) (string, string, string) {
	if strings.TrimSpace(html) == "" {
		return "", "", ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", ""
	}
	title := doc.Find("title").First().Text()
	description, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	if strings.TrimSpace(description) == "" {
		description, _ = doc.Find(`meta[property="og:description"]`).First().Attr("content")
	}
	doc.Find("script, style, noscript, template").Remove()
	body := doc.Find("body").Text()
	return collapseSpace(title), collapseSpace(description), collapseSpace(body)
}

var slugSeparators = strings.NewReplacer("-", " ", "_", " ", "/", " ", ".", " ", "+", " ")

// urlWords turns the path slug into words ("/news/stray-dog-drive" -> "news stray dog drive").
func urlWords(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	path, err := url.PathUnescape(u.Path)
	if err != nil {
		path = u.Path
	}
	return slugSeparators.Replace(path)
}

func compileKeywords(terms []string) []keyword {
	out := make([]keyword, 0, len(terms))
	for _, term := range terms {
		out = append(out, keyword{
			term:    term,
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`),
		})
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
