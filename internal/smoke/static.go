package smoke

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// RequiredAnchors are the section ids every page must carry, in addition to
// the navigation ids.
var RequiredAnchors = []string{
	"home", "services", "about", "pricing", "pricing-note",
	"reviews", "testimonials", "contact", "privacy", "terms",
}

// PricingTerms must all appear in the pricing section.
var PricingTerms = []string{"$60/hr", "First hour upfront", "Ongoing billed hourly"}

// PricingNoteRates must all appear in the pricing note.
var PricingNoteRates = []string{"Saturday $85/hr", "Sunday $95/hr", "Public holidays $110/hr"}

// Static checks a rendered page without running any script.
type Static struct {
	NavIDs     []string
	MinReviews int
}

// CheckFile parses the page at path and checks it.
func (s Static) CheckFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	return s.Check(f)
}

// Check parses the page from r and checks it.
func (s Static) Check(r io.Reader) (*Report, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	p := index(doc)
	report := &Report{}

	for _, id := range s.NavIDs {
		report.add("nav anchor #"+id, p.byID[id] != nil, "")
	}
	for _, id := range RequiredAnchors {
		report.add("anchor #"+id, p.byID[id] != nil, "")
	}

	report.add("footer privacy link", p.hrefs["#privacy"], "")
	report.add("footer terms link", p.hrefs["#terms"], "")

	pricing := textOf(p.byID["pricing"])
	for _, term := range PricingTerms {
		report.add("pricing shows "+term, strings.Contains(pricing, term), "")
	}

	note := textOf(p.byID["pricing-note"])
	for _, rate := range PricingNoteRates {
		report.add("pricing note has "+rate, strings.Contains(note, rate), "")
	}

	report.add("review cards", p.reviewCards >= s.MinReviews, "found %d, want at least %d", p.reviewCards, s.MinReviews)
	report.add("write review button", p.byID["write-review-btn"] != nil, "")

	enquiry := p.byID["enquiry-form"]
	report.add("enquiry form", enquiry != nil, "")
	for _, name := range []string{"name", "email", "phone", "message"} {
		report.add("enquiry form field "+name, hasField(enquiry, name), "")
	}

	review := p.byID["review-form"]
	report.add("review form", review != nil, "")
	for _, name := range []string{"name", "email", "rating", "text", "form_name"} {
		report.add("review form field "+name, hasField(review, name), "")
	}

	view := attr(p.byID["pricing"], "data-pricing-view")
	report.add("pricing view set", view == "cards" || view == "table", "data-pricing-view=%q", view)

	return report, nil
}

type page struct {
	byID        map[string]*html.Node
	hrefs       map[string]bool
	reviewCards int
}

func index(doc *html.Node) page {
	p := page{byID: map[string]*html.Node{}, hrefs: map[string]bool{}}
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if id := attr(n, "id"); id != "" {
			if _, dup := p.byID[id]; !dup {
				p.byID[id] = n
			}
		}
		if n.Data == "a" {
			p.hrefs[attr(n, "href")] = true
		}
		if hasAttr(n, "data-review-card") {
			p.reviewCards++
		}
	})
	return p
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	walk(n, func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
	})
	return sb.String()
}

func hasField(form *html.Node, name string) bool {
	if form == nil {
		return false
	}
	found := false
	walk(form, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "input", "textarea", "select":
			if attr(n, "name") == name {
				found = true
			}
		}
	})
	return found
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
