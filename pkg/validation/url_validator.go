package validation

import (
	"net/url"
	"strings"

	apperrors "go-microplastic-inspector/internal/errors"
)

// URLValidator checks remote image references before anything is fetched
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewURLValidator accepts http, https and azblob references from any host
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https", "azblob"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom allow-lists
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidateReference validates a remote image reference.
// For azblob references the host is the container name.
func (v *URLValidator) ValidateReference(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return apperrors.NewValidationError(apperrors.CodeInvalidURL, "URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(ref)
	if err != nil {
		return apperrors.NewValidationError(apperrors.CodeInvalidURL, "Invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError(apperrors.CodeInvalidURL, "URL scheme not allowed", nil)
	}

	if parsedURL.Hostname() == "" {
		return apperrors.NewValidationError(apperrors.CodeInvalidURL, "URL must have a valid host", nil)
	}

	if !v.isHostAllowed(parsedURL.Hostname()) {
		return apperrors.NewValidationError(apperrors.CodeInvalidURL, "URL host not allowed", nil)
	}

	return nil
}

func (v *URLValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}

// isHostAllowed returns true if no host restrictions are set
func (v *URLValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if strings.EqualFold(host, allowed) {
			return true
		}
	}
	return false
}
