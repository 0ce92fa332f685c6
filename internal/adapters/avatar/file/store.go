// Package file downloads contact icons and keeps them under a directory
// per account.
package file

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/metrics"
	"github.com/bnema/okc-cli/internal/ports"
	"github.com/rs/zerolog"
)

const (
	avatarDirMode  = 0o700
	avatarFileMode = 0o600
	tempPattern    = ".avatar-*.tmp"
)

// Store is a ports.AvatarFetcher. When a contact's icon changes again
// before the previous download finished, the older result is dropped.
type Store struct {
	dir       string
	transport ports.Transport
	logger    zerolog.Logger

	mu     sync.Mutex
	latest map[string]string
}

var _ ports.AvatarFetcher = (*Store)(nil)

// New stores icons for one account under root/<account>.
func New(root string, accountID domain.AccountID, transport ports.Transport, logger zerolog.Logger) *Store {
	return &Store{
		dir:       filepath.Join(filepath.Clean(root), fileName(string(accountID))),
		transport: transport,
		logger:    logger.With().Str("component", "avatars").Logger(),
		latest:    map[string]string{},
	}
}

// Path is where the icon of contact is written.
func (s *Store) Path(contact string) string {
	return filepath.Join(s.dir, fileName(contact))
}

// fileName escapes a screen name into a single path element.
func fileName(name string) string {
	escaped := url.PathEscape(name)
	if escaped == "" || escaped == "." || escaped == ".." {
		return "_" + escaped
	}
	return escaped
}

func (s *Store) FetchAvatar(ctx context.Context, req domain.AvatarRequest, onSaved func()) {
	s.mu.Lock()
	s.latest[req.Contact] = req.Fingerprint
	s.mu.Unlock()

	s.transport.Issue(ctx, ports.Request{
		Method: ports.MethodGet,
		Host:   req.Host,
		Path:   req.Path,
	}, func(body []byte) {
		if s.complete(req, body) && onSaved != nil {
			onSaved()
		}
	})
}

// complete writes a finished download and reports whether the icon was
// saved.
func (s *Store) complete(req domain.AvatarRequest, body []byte) bool {
	s.mu.Lock()
	current := s.latest[req.Contact] == req.Fingerprint
	if current {
		delete(s.latest, req.Contact)
	}
	s.mu.Unlock()

	if !current {
		s.logger.Debug().Str("peer", req.Contact).Msg("Dropping superseded avatar download")
		return false
	}

	if len(body) == 0 {
		metrics.AvatarFetches.WithLabelValues("error").Inc()
		s.logger.Warn().Str("peer", req.Contact).Str("path", req.Path).Msg("Avatar download failed")
		return false
	}

	if err := s.write(req.Contact, body); err != nil {
		metrics.AvatarFetches.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Str("peer", req.Contact).Msg("Failed to save avatar")
		return false
	}

	metrics.AvatarFetches.WithLabelValues("ok").Inc()
	s.logger.Debug().Str("peer", req.Contact).Int("bytes", len(body)).Msg("Avatar saved")
	return true
}

func (s *Store) write(contact string, data []byte) error {
	if err := os.MkdirAll(s.dir, avatarDirMode); err != nil {
		return fmt.Errorf("create avatar directory: %w", err)
	}

	temp, err := os.CreateTemp(s.dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create temp avatar file: %w", err)
	}
	tempName := temp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		return fmt.Errorf("write temp avatar file: %w", err)
	}
	if err := temp.Chmod(avatarFileMode); err != nil {
		_ = temp.Close()
		return fmt.Errorf("chmod temp avatar file: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("close temp avatar file: %w", err)
	}

	if err := os.Rename(tempName, s.Path(contact)); err != nil {
		return fmt.Errorf("replace avatar file: %w", err)
	}
	cleanup = false

	return nil
}
