package postings

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Posting is a job posting extracted from a fetched page.
type Posting struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// contentSelectors are tried in order when locating the posting body.
var contentSelectors = []string{
	".job-description",
	".description",
	"[class*='jobDescription']",
	"[class*='job-details']",
	"article",
	"main",
	"[role='main']",
}

// companySelectors are tried in order when locating the hiring company name.
var companySelectors = []string{
	"[class*='company-name']",
	"[class*='companyName']",
	"[class*='employer']",
	"[itemprop='hiringOrganization']",
}

var whitespaceRe = regexp.MustCompile(`[ \t]+`)
var blankLinesRe = regexp.MustCompile(`\n{3,}`)

// Extract parses posting fields out of fetched HTML.
func Extract(result *FetchResult) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return nil, &ExtractError{URL: result.URL, Message: "failed to parse HTML", Cause: err}
	}

	// Strip noise before extracting text.
	doc.Find("nav, footer, header, script, style, noscript, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()

	posting := &Posting{
		URL:     result.URL,
		Title:   extractTitle(doc),
		Company: extractCompany(doc),
	}

	var body *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			body = sel.First()
			break
		}
	}
	if body == nil {
		body = doc.Find("body")
	}
	posting.Description = cleanWhitespace(body.Text())

	if posting.Description == "" {
		return nil, &ExtractError{URL: result.URL, Message: "no posting content found"}
	}
	return posting, nil
}

func extractTitle(doc *goquery.Document) string {
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		if title := strings.TrimSpace(h1.Text()); title != "" {
			return title
		}
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	// Page titles often carry a " - Company" or " | Board" suffix.
	for _, sep := range []string{" | ", " - ", " · "} {
		if idx := strings.Index(title, sep); idx > 0 {
			title = title[:idx]
			break
		}
	}
	return title
}

func extractCompany(doc *goquery.Document) string {
	for _, selector := range companySelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			if name := strings.TrimSpace(sel.First().Text()); name != "" {
				return name
			}
		}
	}
	if content, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

// extractVisibleText returns the body text with noise elements removed.
func extractVisibleText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Find("body").Text(), nil
}

func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(whitespaceRe.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
