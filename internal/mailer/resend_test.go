package mailer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/thedeck/mailroom-backend/internal/errors"
)

func testMessage() Message {
	return Message{
		To:      "client@example.com",
		CC:      []string{"assistant@example.com"},
		Subject: "Your mail has arrived at The DECK",
		Notes:   "two envelopes, one parcel slip",
		Attachments: []Attachment{
			{Filename: "resized-letter.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}},
		},
	}
}

func TestResendSend_PayloadShape(t *testing.T) {
	var (
		gotAuth string
		payload resendRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewResendMailer(ResendConfig{
		APIKey:  "re_test_key",
		BaseURL: server.URL,
		From:    "The DECK Mailroom <onboarding@resend.dev>",
	})

	require.NoError(t, m.Send(context.Background(), testMessage()))

	assert.Equal(t, "Bearer re_test_key", gotAuth)
	assert.Equal(t, "The DECK Mailroom <onboarding@resend.dev>", payload.From)
	assert.Equal(t, []string{"client@example.com"}, payload.To)
	assert.Equal(t, []string{"assistant@example.com"}, payload.CC)
	assert.Equal(t, "Your mail has arrived at The DECK", payload.Subject)
	assert.Contains(t, payload.HTML, "<h1>New Mail Received</h1>")
	assert.Contains(t, payload.HTML, "two envelopes, one parcel slip")
	assert.Contains(t, payload.HTML, "1 attachment(s) included")

	require.Len(t, payload.Attachments, 1)
	assert.Equal(t, "resized-letter.jpg", payload.Attachments[0].Filename)
	decoded, err := base64.StdEncoding.DecodeString(payload.Attachments[0].Content)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, decoded)
}

func TestResendSend_OmitsEmptyCC(t *testing.T) {
	var raw map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewResendMailer(ResendConfig{APIKey: "k", BaseURL: server.URL, From: "a@b.c"})

	msg := testMessage()
	msg.CC = nil
	require.NoError(t, m.Send(context.Background(), msg))

	_, present := raw["cc"]
	assert.False(t, present, "empty cc must be omitted from the payload")
}

func TestResendSend_EscapesNotes(t *testing.T) {
	var payload resendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewResendMailer(ResendConfig{APIKey: "k", BaseURL: server.URL, From: "a@b.c"})

	msg := testMessage()
	msg.Notes = `<script>alert("x")</script>`
	require.NoError(t, m.Send(context.Background(), msg))

	assert.NotContains(t, payload.HTML, "<script>")
	assert.Contains(t, payload.HTML, "&lt;script&gt;")
}

func TestResendSend_SurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(resendError{Name: "validation_error", Message: "invalid to address"})
	}))
	defer server.Close()

	m := NewResendMailer(ResendConfig{APIKey: "k", BaseURL: server.URL, From: "a@b.c"})

	err := m.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmailSendFailed)
	assert.Contains(t, err.Error(), "invalid to address")
}

func TestResendSend_StatusDerivedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	m := NewResendMailer(ResendConfig{APIKey: "k", BaseURL: server.URL, From: "a@b.c"})

	err := m.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmailSendFailed)
	assert.Contains(t, err.Error(), "502")
}

func TestHTMLBody_AttachmentCount(t *testing.T) {
	msg := testMessage()
	msg.Attachments = append(msg.Attachments, Attachment{Filename: "b.jpg"}, Attachment{Filename: "c.jpg"})

	body := HTMLBody(msg)
	assert.Contains(t, body, "3 attachment(s) included")
}
