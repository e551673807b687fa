package validation

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// EndpointValidator checks the help-center API root the client talks to.
type EndpointValidator struct {
	// AllowInsecure permits plain http, localhost and private addresses.
	AllowInsecure bool
	MaxLength     int
}

// NewEndpointValidator creates a validator with secure defaults
func NewEndpointValidator() *EndpointValidator {
	return &EndpointValidator{MaxLength: 2048}
}

// NewPermissiveEndpointValidator allows local development servers.
func NewPermissiveEndpointValidator() *EndpointValidator {
	return &EndpointValidator{AllowInsecure: true, MaxLength: 2048}
}

// ValidateAndNormalize returns the endpoint without a trailing slash.
func (v *EndpointValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	switch parsedURL.Scheme {
	case "https":
	case "http":
		if !v.AllowInsecure {
			return "", fmt.Errorf("URL must use https")
		}
	default:
		return "", fmt.Errorf("URL must use http or https protocol")
	}

	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return "", fmt.Errorf("API root must not carry a query or fragment")
	}
	if strings.Contains(parsedURL.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	if !v.AllowInsecure {
		if err := validateHostSecurity(parsedURL.Hostname()); err != nil {
			return "", err
		}
	}

	parsedURL.Path = strings.TrimRight(parsedURL.Path, "/")
	return parsedURL.String(), nil
}

func validateHostSecurity(hostname string) error {
	if isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}
	if ip := net.ParseIP(hostname); ip != nil && (ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()) {
		return fmt.Errorf("private IP addresses are not permitted")
	}
	return nil
}

func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" || strings.HasSuffix(hostname, ".localhost")
}

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// ValidateSubdomain checks a Zendesk account subdomain such as "manuonline".
func ValidateSubdomain(sub string) error {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return fmt.Errorf("subdomain cannot be empty")
	}
	if !subdomainPattern.MatchString(sub) {
		return fmt.Errorf("invalid subdomain %q", sub)
	}
	return nil
}
