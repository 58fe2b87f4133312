package common

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

	// Must start with http:// or https://, have a plain host with an optional
	// port, and may carry a path, query or fragment.
	urlPattern = regexp.MustCompile(`^https?://[a-zA-Z0-9][-a-zA-Z0-9.]*[a-zA-Z0-9](:[0-9]+)?([/?#][^\s]*)?$`)
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation and markdown link wrappers.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// "[text](https://example.com)" -> "https://example.com"
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	trailingChars := []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"}
	for _, char := range trailingChars {
		cleaned = strings.TrimSuffix(cleaned, char)
	}

	leadingChars := []string{"(", "[", "<", "\"", "'"}
	for _, char := range leadingChars {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// ValidateURL sanitizes rawURL and returns the cleaned form, or an error if it
// is still not an absolute http(s) URL.
func ValidateURL(rawURL string) (string, error) {
	cleaned := SanitizeURL(rawURL)

	if cleaned == "" {
		return "", fmt.Errorf("url is empty")
	}

	// Reject URLs with literal spaces (must be pre-encoded as %20)
	if strings.Contains(cleaned, " ") {
		return "", fmt.Errorf("url %q contains spaces", rawURL)
	}

	if !urlPattern.MatchString(cleaned) {
		return "", fmt.Errorf("url %q is malformed", rawURL)
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("url %q is malformed: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("url %q must use http or https", rawURL)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}
	if strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return "", fmt.Errorf("url %q has invalid characters in host", rawURL)
	}

	return cleaned, nil
}
