package validate

import (
	"regexp"
	"strings"
)

const (
	MinTitleLen       = 5
	MinDescriptionLen = 20
	MaxImagesPerAd    = 5
)

var reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ID validates a simple resource identifier (listing/category ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// UserID validates an opaque user identifier. Telegram ids are numeric but
// we only require non-blank and a sane length.
func UserID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 64
}

// Title trims and checks the listing title length.
func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len([]rune(s)) >= MinTitleLen
}

// Description trims and checks the listing description length.
func Description(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len([]rune(s)) >= MinDescriptionLen
}

// Price requires a positive amount.
func Price(v float64) bool { return v > 0 }

// Reason trims a rejection reason; blank is not acceptable.
func Reason(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// MessageText trims a chat message; blank is not acceptable.
func MessageText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Images drops blank entries and clamps the list to MaxImagesPerAd.
func Images(in []string) []string {
	out := make([]string, 0, len(in))
	for _, img := range in {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		out = append(out, img)
		if len(out) == MaxImagesPerAd {
			break
		}
	}
	return out
}
