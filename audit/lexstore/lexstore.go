// Hot-reloadable lexicon snapshots.
//
// A store hands out immutable *lexicon.Lexicon snapshots. Reload builds a
// fresh snapshot from the backing configuration and swaps an atomic pointer;
// audits already holding the previous snapshot keep matching against it
// unchanged. Nothing ever mutates a snapshot in place.
package lexstore

import (
	"context"

	"github.com/bulletin-labs/prahari/audit/lexicon"
)

type LexiconStore interface {
	// Snapshot returns the current immutable lexicon.
	Snapshot(ctx context.Context) (*lexicon.Lexicon, error)
	// Reload rebuilds the snapshot from the backing configuration. A failed
	// reload leaves the previous snapshot in place.
	Reload(ctx context.Context) error
}
