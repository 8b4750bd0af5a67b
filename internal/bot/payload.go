package bot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mkruglov/bookbot/internal/views"
)

// ErrBadPayload marks callback data that failed validation. Handlers
// treat it as a stale or forged button and answer with a generic notice.
var ErrBadPayload = errors.New("malformed callback payload")

var guidPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// parseAccountRef accepts either the root sentinel or a 32-hex guid.
func parseAccountRef(payload string) (string, error) {
	ref := strings.TrimSpace(payload)
	if ref == views.RootRef {
		return ref, nil
	}
	if !guidPattern.MatchString(ref) {
		return "", fmt.Errorf("%w: account ref %q", ErrBadPayload, payload)
	}
	return ref, nil
}

// parseJournalRef decodes "<guid>:<page>" with a non-negative page.
func parseJournalRef(payload string) (guid string, page int, err error) {
	parts := strings.Split(payload, views.PayloadSep)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("%w: journal ref %q", ErrBadPayload, payload)
	}
	if !guidPattern.MatchString(parts[0]) {
		return "", 0, fmt.Errorf("%w: journal account %q", ErrBadPayload, parts[0])
	}
	page, err = strconv.Atoi(parts[1])
	if err != nil || page < 0 {
		return "", 0, fmt.Errorf("%w: journal page %q", ErrBadPayload, parts[1])
	}
	return parts[0], page, nil
}

// parseTransferPair decodes "<src-guid>:<dst-ref>". The destination may
// still be the root sentinel while the user is navigating the picker.
func parseTransferPair(payload string) (src, dst string, err error) {
	parts := strings.Split(payload, views.PayloadSep)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: transfer pair %q", ErrBadPayload, payload)
	}
	if !guidPattern.MatchString(parts[0]) {
		return "", "", fmt.Errorf("%w: transfer source %q", ErrBadPayload, parts[0])
	}
	dst, err = parseAccountRef(parts[1])
	if err != nil {
		return "", "", err
	}
	return parts[0], dst, nil
}
