package domain

import (
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// GzipToken is the content coding offered to clients.
const GzipToken = "gzip"

var (
	// see http://msdn.microsoft.com/en-us/library/ms537503(VS.85).aspx
	msiePattern    = regexp.MustCompile(`^Mozilla/4\.0 \(compatible; MSIE (\d+)\.`)
	mozillaPattern = regexp.MustCompile(`^Mozilla/(\d+)\.`)
)

// Accepts reports whether a comma-separated Accept-* header value lists the
// token with a non-zero quality. Tokens are compared case-insensitively.
func Accepts(list, token string) bool {
	for item := range strings.SplitSeq(list, ",") {
		name, params, _ := strings.Cut(item, ";")
		if !strings.EqualFold(strings.TrimSpace(name), token) {
			continue
		}
		return nonZeroQuality(params)
	}
	return false
}

func nonZeroQuality(params string) bool {
	for param := range strings.SplitSeq(params, ";") {
		key, value, ok := strings.Cut(param, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return false
		}
		return q > 0
	}
	return true
}

// WhiteListed reports whether a user agent is known to handle gzip-compressed
// scripts and stylesheets: MSIE 7 or later, or any Mozilla/5 compatible browser.
func WhiteListed(userAgent string) bool {
	return atLeast(userAgent, msiePattern, 7) || atLeast(userAgent, mozillaPattern, 5)
}

func atLeast(s string, pattern *regexp.Regexp, minimum int) bool {
	match := pattern.FindStringSubmatch(s)
	if match == nil {
		return false
	}
	major, err := strconv.Atoi(match[1])
	if err != nil {
		return false
	}
	return major >= minimum
}

// CanGzip reports whether a response may be gzip-compressed for the given
// Accept-Encoding and User-Agent header values.
func CanGzip(acceptEncoding, userAgent string) bool {
	if acceptEncoding == "" || !Accepts(acceptEncoding, GzipToken) {
		return false
	}
	return WhiteListed(userAgent)
}

// CheckCharset validates an Accept-Charset header value.
// An empty value is accepted; IE7 does not send the header.
func CheckCharset(accepts string) error {
	if accepts == "" {
		return nil
	}
	if Accepts(accepts, "utf-8") || Accepts(accepts, "*") {
		return nil
	}
	return zerr.With(zerr.Wrap(ErrCharsetNotAccepted, "check charset"), "accept_charset", accepts)
}
