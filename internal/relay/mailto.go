package relay

import (
	"fmt"
	"net/url"
	"strings"

	"calebs/ccsWebsite/internal/models"
)

// EnquiryMailto builds the compose link used when an enquiry cannot be relayed.
func EnquiryMailto(to string, f models.EnquiryForm) string {
	subject := "Website enquiry from " + f.Name
	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\nMessage:\n%s", f.Name, f.Email, f.Phone, f.Message)
	return Mailto(to, subject, body)
}

// ReviewMailto builds the compose link used when a review cannot be relayed.
func ReviewMailto(to string, f models.ReviewForm) string {
	subject := "New website review from " + f.Name
	body := fmt.Sprintf("Name: %s\nRating: %d/5\n\nReview:\n%s", f.Name, f.Rating, f.Text)
	return Mailto(to, subject, body)
}

// Mailto returns mailto:<to>?subject=...&body=... with both parts percent-encoded.
func Mailto(to, subject, body string) string {
	return "mailto:" + to + "?subject=" + encodeComponent(subject) + "&body=" + encodeComponent(body)
}

// componentUnescaper undoes the query-string escapes that encodeURIComponent
// leaves alone. Mail clients show a literal '+' for spaces, so those become %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes like a browser's encodeURIComponent.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
