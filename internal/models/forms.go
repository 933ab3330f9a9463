package models

import (
	"strconv"
	"strings"
)

const (
	// ReviewFormName tags review submissions so the relay can tell them apart from enquiries.
	ReviewFormName = "Website Review"

	DefaultRating = 5
)

// EnquiryForm is the contact form. Name, Email and Message are required.
type EnquiryForm struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Phone   string `form:"phone" json:"phone,omitempty"`
	Message string `form:"message" json:"message"`
}

// Fields lists the form fields in form order. The relay sends them as a
// multipart map, so receivers key on the field name, not the position.
func (f EnquiryForm) Fields() []Field {
	return []Field{
		{Name: "name", Value: f.Name},
		{Name: "email", Value: f.Email},
		{Name: "phone", Value: f.Phone},
		{Name: "message", Value: f.Message},
	}
}

// Missing lists the required fields that are blank.
func (f EnquiryForm) Missing() []string {
	var missing []string
	if blank(f.Name) {
		missing = append(missing, "name")
	}
	if blank(f.Email) {
		missing = append(missing, "email")
	}
	if blank(f.Message) {
		missing = append(missing, "message")
	}
	return missing
}

// IsZero reports whether every field is empty.
func (f EnquiryForm) IsZero() bool {
	return f == EnquiryForm{}
}

// ReviewForm is the review modal's form. Name and Text are required.
type ReviewForm struct {
	Name   string `form:"name" json:"name"`
	Email  string `form:"email" json:"email,omitempty"`
	Rating int    `form:"rating" json:"rating"`
	Text   string `form:"text" json:"text"`
}

// NewReviewForm returns an empty review form with the default rating selected.
func NewReviewForm() ReviewForm {
	return ReviewForm{Rating: DefaultRating}
}

// Fields lists the form fields, including the form_name tag.
func (f ReviewForm) Fields() []Field {
	return []Field{
		{Name: "name", Value: f.Name},
		{Name: "email", Value: f.Email},
		{Name: "rating", Value: strconv.Itoa(f.Rating)},
		{Name: "text", Value: f.Text},
		{Name: "form_name", Value: ReviewFormName},
	}
}

// Missing lists the required fields that are blank or out of range.
func (f ReviewForm) Missing() []string {
	var missing []string
	if blank(f.Name) {
		missing = append(missing, "name")
	}
	if f.Rating < 1 || f.Rating > 5 {
		missing = append(missing, "rating")
	}
	if blank(f.Text) {
		missing = append(missing, "text")
	}
	return missing
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
