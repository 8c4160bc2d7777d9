package fetch

import (
	"bytes"
	"net/http"
	"strings"
)

// Detector inspects a fetched page to decide whether the search engine served
// a challenge or block page instead of real results.
type Detector func(statusCode int, headers http.Header, body []byte) (detected bool, source string)

// DefaultDetectors returns the detectors run on every fetched page.
func DefaultDetectors() []Detector {
	return []Detector{
		detectCloudflare,
		detectGoogleSorry,
		detectDuckDuckGoAnomaly,
		detectCaptchaWall,
	}
}

// Analyze runs the page through the detectors and reports the first hit.
func Analyze(statusCode int, headers http.Header, body []byte, detectors []Detector) (bool, string) {
	for _, d := range detectors {
		if detected, source := d(statusCode, headers, body); detected {
			return true, source
		}
	}
	return false, ""
}

// detectCloudflare looks for common Cloudflare challenge/block signatures.
func detectCloudflare(statusCode int, headers http.Header, body []byte) (bool, string) {
	if statusCode != http.StatusForbidden && statusCode != http.StatusServiceUnavailable {
		return false, ""
	}

	if strings.Contains(strings.ToLower(headers.Get("Server")), "cloudflare") {
		return true, "Cloudflare"
	}

	if bytes.Contains(body, []byte("cf-browser-verification")) ||
		bytes.Contains(body, []byte("cf-turnstile")) ||
		bytes.Contains(body, []byte("Attention Required! | Cloudflare")) {
		return true, "Cloudflare"
	}
	return false, ""
}

// detectGoogleSorry looks for Google's automated-traffic interstitial.
func detectGoogleSorry(statusCode int, headers http.Header, body []byte) (bool, string) {
	if bytes.Contains(body, []byte("unusual traffic from your computer network")) ||
		bytes.Contains(body, []byte("/sorry/index")) {
		return true, "Google"
	}
	if statusCode == http.StatusTooManyRequests && strings.Contains(headers.Get("Server"), "gws") {
		return true, "Google"
	}
	return false, ""
}

// detectDuckDuckGoAnomaly looks for DuckDuckGo's anomaly block page.
func detectDuckDuckGoAnomaly(statusCode int, headers http.Header, body []byte) (bool, string) {
	if bytes.Contains(body, []byte("anomaly-modal")) ||
		bytes.Contains(body, []byte("detected an anomaly in your traffic")) {
		return true, "DuckDuckGo"
	}
	return false, ""
}

// detectCaptchaWall looks for generic captcha walls, which Bing among others
// serves in place of the results page.
func detectCaptchaWall(statusCode int, headers http.Header, body []byte) (bool, string) {
	if bytes.Contains(body, []byte("g-recaptcha")) ||
		bytes.Contains(body, []byte("h-captcha")) ||
		bytes.Contains(body, []byte("hcaptcha.com")) ||
		bytes.Contains(body, []byte("captcha-delivery.com")) {
		return true, "Captcha"
	}
	return false, ""
}
