package lexstore

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/bulletin-labs/prahari/audit/lexicon"
)

var ErrNoSnapshot = errors.New("no lexicon snapshot loaded")

// MemLexiconStore holds a snapshot set directly by the caller. There is no
// backing configuration, so Reload is a no-op; new snapshots arrive via
// SetSnapshot.
type MemLexiconStore struct {
	cur atomic.Pointer[lexicon.Lexicon]
}

func NewMemLexiconStore(lex *lexicon.Lexicon) *MemLexiconStore {
	s := &MemLexiconStore{}
	if lex != nil {
		s.cur.Store(lex)
	}
	return s
}

func (s *MemLexiconStore) Snapshot(ctx context.Context) (*lexicon.Lexicon, error) {
	lex := s.cur.Load()
	if lex == nil {
		return nil, ErrNoSnapshot
	}
	return lex, nil
}

func (s *MemLexiconStore) SetSnapshot(lex *lexicon.Lexicon) {
	s.cur.Store(lex)
}

func (s *MemLexiconStore) Reload(ctx context.Context) error {
	return nil
}
