package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fieldMap(fields []Field) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return m
}

func TestEnquiryForm_Fields(t *testing.T) {
	f := EnquiryForm{Name: "Jane", Email: "jane@example.com", Phone: "0400", Message: "Hi"}

	assert.Equal(t, map[string]string{
		"name": "Jane", "email": "jane@example.com", "phone": "0400", "message": "Hi",
	}, fieldMap(f.Fields()))
	assert.Empty(t, f.Missing())
	assert.Equal(t, []string{"name", "email", "message"}, EnquiryForm{Phone: "0400"}.Missing())
	assert.True(t, EnquiryForm{}.IsZero())
}

func TestReviewForm_Fields(t *testing.T) {
	f := NewReviewForm()
	assert.Equal(t, DefaultRating, f.Rating)

	f.Name, f.Text = "Mia R.", "Great"
	fields := fieldMap(f.Fields())
	assert.Equal(t, "5", fields["rating"])
	assert.Equal(t, ReviewFormName, fields["form_name"])
	assert.Contains(t, fields, "email")
	assert.Empty(t, f.Missing())

	assert.Equal(t, []string{"name", "rating", "text"}, ReviewForm{Rating: 0}.Missing())
	assert.Equal(t, []string{"rating"}, ReviewForm{Name: "A", Text: "B", Rating: 6}.Missing())
}
