package relay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calebs/ccsWebsite/internal/models"
)

const businessEmail = "hello@example.com"

var enquiry = models.EnquiryForm{
	Name:    "Jane Appleseed",
	Email:   "jane@example.com",
	Phone:   "0400 000 000",
	Message: "Laptop won't boot & fan is loud",
}

func TestSubmitEnquiry_Primary(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		got = r.MultipartForm.Value
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := New(server.URL, businessEmail)
	res := c.SubmitEnquiry(context.Background(), enquiry)

	assert.Equal(t, ChannelPrimary, res.Channel)
	assert.True(t, res.Delivered())
	assert.Empty(t, res.MailtoURL)
	assert.NoError(t, res.Cause)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, []string{"Jane Appleseed"}, got["name"])
	assert.Equal(t, []string{"jane@example.com"}, got["email"])
	assert.Equal(t, []string{"0400 000 000"}, got["phone"])
	assert.Equal(t, []string{enquiry.Message}, got["message"])
}

func TestSubmitEnquiry_FallbackOnStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	res := New(server.URL, businessEmail).SubmitEnquiry(context.Background(), enquiry)

	assert.Equal(t, ChannelFallback, res.Channel)
	assert.True(t, res.Delivered())
	var statusErr *StatusError
	require.ErrorAs(t, res.Cause, &statusErr)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.Equal(t, EnquiryMailto(businessEmail, enquiry), res.MailtoURL)
}

func TestSubmitEnquiry_FallbackOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	res := New(endpoint, businessEmail, WithTimeout(2*time.Second)).SubmitEnquiry(context.Background(), enquiry)

	assert.Equal(t, ChannelFallback, res.Channel)
	assert.Error(t, res.Cause)
	assert.True(t, strings.HasPrefix(res.MailtoURL, "mailto:"+businessEmail+"?subject="))
}

func TestSubmit_EmptyEndpointSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := New("", businessEmail, WithHTTPClient(server.Client()))
	res := c.SubmitReview(context.Background(), models.ReviewForm{Name: "Mia R.", Rating: 4, Text: "Great"})

	assert.Equal(t, ChannelFallback, res.Channel)
	assert.True(t, errors.Is(res.Cause, ErrNoEndpoint))
	assert.Zero(t, calls.Load())
}

func TestSubmitReview_SendsFormName(t *testing.T) {
	var formName, rating string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		formName = r.FormValue("form_name")
		rating = r.FormValue("rating")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	res := New(server.URL, businessEmail).SubmitReview(context.Background(), models.ReviewForm{Name: "Mia R.", Rating: 4, Text: "Great"})

	assert.Equal(t, ChannelPrimary, res.Channel)
	assert.Equal(t, models.ReviewFormName, formName)
	assert.Equal(t, "4", rating)
}

func TestEnquiryMailto(t *testing.T) {
	link := EnquiryMailto(businessEmail, enquiry)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "mailto", u.Scheme)
	assert.Equal(t, businessEmail, u.Opaque)
	assert.NotContains(t, link, "+", "spaces must be encoded as %20")

	q, err := url.ParseQuery(u.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "Website enquiry from Jane Appleseed", q.Get("subject"))
	assert.Equal(t, "Name: Jane Appleseed\nEmail: jane@example.com\nPhone: 0400 000 000\n\nMessage:\nLaptop won't boot & fan is loud", q.Get("body"))
}

func TestReviewMailto(t *testing.T) {
	link := ReviewMailto(businessEmail, models.ReviewForm{Name: "Noah B.", Rating: 5, Text: "Fast & friendly"})

	u, err := url.Parse(link)
	require.NoError(t, err)
	q, err := url.ParseQuery(u.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, "New website review from Noah B.", q.Get("subject"))
	assert.Equal(t, "Name: Noah B.\nRating: 5/5\n\nReview:\nFast & friendly", q.Get("body"))
}

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hi (it's) me!", "Hi%20(it's)%20me!"},
		{"a*b~c-d_e.f", "a*b~c-d_e.f"},
		{"1+1 & 2", "1%2B1%20%26%202"},
		{"line\nbreak", "line%0Abreak"},
		{"café", "caf%C3%A9"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeComponent(tt.in))
		})
	}

	link := Mailto(businessEmail, "Hi (it's) me!", "ok")
	assert.Equal(t, "mailto:"+businessEmail+"?subject=Hi%20(it's)%20me!&body=ok", link)
}

func TestChannelString(t *testing.T) {
	assert.Equal(t, "delivered", ChannelPrimary.String())
	assert.Equal(t, "fallback", ChannelFallback.String())
}
