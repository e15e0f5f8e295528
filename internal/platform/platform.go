// Package platform classifies a URL by the social network it points to.
package platform

import "strings"

// Platform is the display label of a social network.
type Platform string

const (
	None      Platform = ""
	Twitter   Platform = "Twitter"
	Facebook  Platform = "Facebook"
	Instagram Platform = "Instagram"
	YouTube   Platform = "YouTube"
	Telegram  Platform = "Telegram"
	WhatsApp  Platform = "WhatsApp"
	Reddit    Platform = "Reddit"
	Other     Platform = "Other"
)

type rule struct {
	platform Platform
	markers  []string
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{Twitter, []string{"twitter.com", "x.com"}},
	{Facebook, []string{"facebook.com"}},
	{Instagram, []string{"instagram.com"}},
	{YouTube, []string{"youtube.com"}},
	{Telegram, []string{"t.me", "telegram.org"}},
	{WhatsApp, []string{"whatsapp.com"}},
	{Reddit, []string{"reddit.com"}},
}

// Detect returns the platform for url by case-insensitive substring match.
// Empty input yields None, unmatched input yields Other.
func Detect(url string) Platform {
	s := strings.ToLower(strings.TrimSpace(url))
	if s == "" {
		return None
	}
	for _, r := range rules {
		for _, m := range r.markers {
			if strings.Contains(s, m) {
				return r.platform
			}
		}
	}
	return Other
}

func (p Platform) String() string {
	return string(p)
}
