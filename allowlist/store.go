// Package allowlist persists the set of group chats the bot may answer in.
// The file format is one decimal chat id per line. An absent or empty file
// means "no restriction": callers must treat the empty set as an open gate.
package allowlist

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/aliqajarian/tg-chatbot/internal/fsstore"
)

const lockKey = "allowlist"

type Store struct {
	path     string
	lockPath string
}

func NewStore(path, lockDir string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("allowlist: empty store path")
	}
	lockPath, err := fsstore.BuildLockPath(lockDir, lockKey)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, lockPath: lockPath}, nil
}

// Allowed returns the persisted chat ids. A missing file is the empty set,
// not an error.
func (s *Store) Allowed() (map[int64]bool, error) {
	content, exists, err := fsstore.ReadText(s.path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return map[int64]bool{}, nil
	}
	return parseIDs(content), nil
}

// Add appends chatID if it is not already present. The read-check-append
// sequence runs under an exclusive file lock so concurrent webhook deliveries
// cannot interleave writes or duplicate entries.
func (s *Store) Add(ctx context.Context, chatID int64) error {
	return fsstore.WithLock(ctx, s.lockPath, func() error {
		content, _, err := fsstore.ReadText(s.path)
		if err != nil {
			return err
		}
		if parseIDs(content)[chatID] {
			return nil
		}
		f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("allowlist: open %s: %w", s.path, err)
		}
		defer f.Close()
		if _, err := fmt.Fprintf(f, "%d\n", chatID); err != nil {
			return fmt.Errorf("allowlist: append %s: %w", s.path, err)
		}
		return f.Sync()
	})
}

// Remove deletes chatID from the list. Admin-only path: rewrites the whole
// file atomically rather than appending.
func (s *Store) Remove(ctx context.Context, chatID int64) error {
	return s.rewrite(ctx, func(ids map[int64]bool) {
		delete(ids, chatID)
	})
}

// Clear empties the list, returning the bot to open-by-default behavior.
func (s *Store) Clear(ctx context.Context) error {
	return s.rewrite(ctx, func(ids map[int64]bool) {
		for id := range ids {
			delete(ids, id)
		}
	})
}

func (s *Store) rewrite(ctx context.Context, mutate func(map[int64]bool)) error {
	return fsstore.WithLock(ctx, s.lockPath, func() error {
		content, _, err := fsstore.ReadText(s.path)
		if err != nil {
			return err
		}
		ids := parseIDs(content)
		mutate(ids)
		return fsstore.WriteTextAtomic(s.path, formatIDs(ids), fsstore.FileOptions{FilePerm: 0o600})
	})
}

func parseIDs(content string) map[int64]bool {
	ids := make(map[int64]bool)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			continue
		}
		ids[id] = true
	}
	return ids
}

func formatIDs(ids map[int64]bool) string {
	if len(ids) == 0 {
		return ""
	}
	ordered := make([]int64, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	var b strings.Builder
	for _, id := range ordered {
		b.WriteString(strconv.FormatInt(id, 10))
		b.WriteByte('\n')
	}
	return b.String()
}
