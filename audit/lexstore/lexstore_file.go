package lexstore

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bulletin-labs/prahari/audit/lexicon"
)

// FileLexiconStore loads lexicon configuration from a JSON file on disk.
type FileLexiconStore struct {
	path string
	cur  atomic.Pointer[lexicon.Lexicon]
}

// NewFileLexiconStore loads the file eagerly, so a malformed lexicon fails
// daemon startup instead of the first audit.
func NewFileLexiconStore(path string) (*FileLexiconStore, error) {
	s := &FileLexiconStore{path: path}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileLexiconStore) Snapshot(ctx context.Context) (*lexicon.Lexicon, error) {
	lex := s.cur.Load()
	if lex == nil {
		return nil, ErrNoSnapshot
	}
	return lex, nil
}

func (s *FileLexiconStore) Reload(ctx context.Context) error {
	lex, err := lexicon.LoadFromFileJSON(s.path)
	if err != nil {
		return fmt.Errorf("reloading lexicon from %s: %w", s.path, err)
	}
	s.cur.Store(lex)
	return nil
}
