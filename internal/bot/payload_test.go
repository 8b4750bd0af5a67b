package bot

import (
	"errors"
	"strings"
	"testing"
)

var validGUID = strings.Repeat("ab", 16)

func TestParseAccountRef(t *testing.T) {
	if got, err := parseAccountRef("root"); err != nil || got != "root" {
		t.Errorf("parseAccountRef(root) = %q, %v", got, err)
	}
	if got, err := parseAccountRef(validGUID); err != nil || got != validGUID {
		t.Errorf("parseAccountRef(guid) = %q, %v", got, err)
	}

	for _, bad := range []string{"", "ROOT", "xyz", strings.Repeat("g", 32), validGUID + "ff", "../etc"} {
		if _, err := parseAccountRef(bad); !errors.Is(err, ErrBadPayload) {
			t.Errorf("parseAccountRef(%q) err = %v, want ErrBadPayload", bad, err)
		}
	}
}

func TestParseJournalRef(t *testing.T) {
	guid, page, err := parseJournalRef(validGUID + ":3")
	if err != nil || guid != validGUID || page != 3 {
		t.Errorf("parseJournalRef = %q, %d, %v", guid, page, err)
	}

	for _, bad := range []string{validGUID, validGUID + ":-1", validGUID + ":x", "root:0", validGUID + ":1:2", ""} {
		if _, _, err := parseJournalRef(bad); !errors.Is(err, ErrBadPayload) {
			t.Errorf("parseJournalRef(%q) err = %v, want ErrBadPayload", bad, err)
		}
	}
}

func TestParseTransferPair(t *testing.T) {
	other := strings.Repeat("cd", 16)

	src, dst, err := parseTransferPair(validGUID + ":" + other)
	if err != nil || src != validGUID || dst != other {
		t.Errorf("parseTransferPair = %q, %q, %v", src, dst, err)
	}

	// Navigating the picker through the root is allowed.
	if _, dst, err := parseTransferPair(validGUID + ":root"); err != nil || dst != "root" {
		t.Errorf("parseTransferPair(root dst) = %q, %v", dst, err)
	}

	for _, bad := range []string{"root:" + other, validGUID, validGUID + ":zzz", "", ":" + other} {
		if _, _, err := parseTransferPair(bad); !errors.Is(err, ErrBadPayload) {
			t.Errorf("parseTransferPair(%q) err = %v, want ErrBadPayload", bad, err)
		}
	}
}
