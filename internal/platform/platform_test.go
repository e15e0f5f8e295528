package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Platform
	}{
		{"twitter", "https://twitter.com/someone/status/1", Twitter},
		{"x", "https://x.com/someone", Twitter},
		{"upper case", "HTTPS://TWITTER.COM/A", Twitter},
		{"facebook", "https://www.facebook.com/watch?v=1", Facebook},
		{"instagram", "https://instagram.com/p/abc", Instagram},
		{"youtube", "https://www.YouTube.com/watch?v=abc", YouTube},
		{"telegram short", "https://t.me/channel/42", Telegram},
		{"telegram org", "https://telegram.org/blog", Telegram},
		{"whatsapp", "https://chat.whatsapp.com/invite", WhatsApp},
		{"reddit", "https://old.reddit.com/r/golang", Reddit},
		{"other", "https://example.org/page", Other},
		{"not a url", "hello", Other},
		{"empty", "", None},
		{"blank", "   ", None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.url))
		})
	}
}

func TestDetect_FirstRuleWins(t *testing.T) {
	// "x.com" is checked before reddit.com
	assert.Equal(t, Twitter, Detect("https://reddit.com/r/x.com"))
	// "t.me" appears inside unrelated hosts too
	assert.Equal(t, Telegram, Detect("https://art.meetup.example"))
	assert.Equal(t, Facebook, Detect("https://facebook.com/t.me"))
}
