// Package ref maps account secret refs onto backend entry names.
package ref

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	scheme      = "okc://"
	entryPrefix = "okc/accounts"
)

var ErrInvalidKey = errors.New("invalid secret key")

// EntryName turns a secret ref into a slash separated entry name shared by
// the pass and file backends. "okc://acc-1/session_cookie" becomes
// "okc/accounts/acc-1/session_cookie". Refs without the okc scheme are used
// as given once cleaned.
func EntryName(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("%w: secret key is empty", ErrInvalidKey)
	}

	name := trimmed
	if rest, ok := strings.CutPrefix(trimmed, scheme); ok {
		name = entryPrefix + "/" + rest
	}

	cleaned := path.Clean(name)
	if strings.HasPrefix(cleaned, "/") || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") ||
		strings.Contains(cleaned, "/../") || strings.HasSuffix(cleaned, "/..") {
		return "", fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	if strings.HasPrefix(trimmed, scheme) && cleaned != name {
		return "", fmt.Errorf("%w %q", ErrInvalidKey, key)
	}

	return cleaned, nil
}
