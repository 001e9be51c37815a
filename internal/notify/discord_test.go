package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func sampleAlert() Alert {
	return Alert{
		Title:       "Target Reached",
		Description: "The price has reached or dropped below the target!",
		URL:         shopURL,
		Color:       3447003,
		Mention:     true,
		Fields: []Field{
			{Name: "Current Price (per 100 Robux)", Value: "Rp 13.000", Inline: true},
			{Name: "Shop Link", Value: "[Open the shop](" + shopURL + ")"},
		},
		Footer:    "Created by budi",
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildPayload(t *testing.T) {
	p := buildPayload(sampleAlert())

	assert.Equal(t, "@everyone", p.Content)
	assert.Equal(t, webhookUsername, p.Username)
	require.Len(t, p.Embeds, 1)

	embed := p.Embeds[0]
	assert.Equal(t, "Target Reached", embed.Title)
	assert.Equal(t, 3447003, embed.Color)
	assert.Equal(t, "2024-03-01T12:00:00Z", embed.Timestamp)
	assert.Equal(t, "Created by budi", embed.Footer.Text)
	require.Len(t, embed.Fields, 2)
	assert.True(t, embed.Fields[0].Inline)
}

func TestBuildPayloadNoMention(t *testing.T) {
	a := sampleAlert()
	a.Mention = false

	p := buildPayload(a)
	assert.Empty(t, p.Content)
}

func TestDiscordSend(t *testing.T) {
	var got discordPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiscordNotifier(srv.URL, testLogger())
	require.NoError(t, d.Send(context.Background(), sampleAlert()))

	assert.Equal(t, "@everyone", got.Content)
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, "Target Reached", got.Embeds[0].Title)
}

func TestDiscordSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	d := NewDiscordNotifier(srv.URL, testLogger())
	assert.Error(t, d.Send(context.Background(), sampleAlert()))
}
