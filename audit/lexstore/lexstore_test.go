package lexstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bulletin-labs/prahari/audit/lexicon"
)

const sampleConfig = `{
	"categories": [
		{"name": "casual", "severity": "low", "terms": [{"surface": "yaar", "replacement": "mitra"}]}
	]
}`

func TestMemLexiconStore(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	empty := NewMemLexiconStore(nil)
	_, err := empty.Snapshot(ctx)
	assert.ErrorIs(err, ErrNoSnapshot)

	lex, err := lexicon.ParseConfig([]byte(sampleConfig))
	assert.NoError(err)

	s := NewMemLexiconStore(lex)
	got, err := s.Snapshot(ctx)
	assert.NoError(err)
	assert.Equal(lex.Version(), got.Version())
	assert.NoError(s.Reload(ctx))
}

func TestFileLexiconStoreReload(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	p := filepath.Join(t.TempDir(), "lexicon.json")
	assert.NoError(os.WriteFile(p, []byte(sampleConfig), 0644))

	s, err := NewFileLexiconStore(p)
	assert.NoError(err)
	before, err := s.Snapshot(ctx)
	assert.NoError(err)

	// snapshot held before reload is unaffected by the swap
	updated := `{"categories": [
		{"name": "casual", "severity": "low", "terms": [{"surface": "yaar", "replacement": "mitra"}, {"surface": "bhai"}]}
	]}`
	assert.NoError(os.WriteFile(p, []byte(updated), 0644))
	assert.NoError(s.Reload(ctx))

	after, err := s.Snapshot(ctx)
	assert.NoError(err)
	assert.NotEqual(before.Version(), after.Version())
	assert.Len(before.Terms(), 1)
	assert.Len(after.Terms(), 2)

	// failed reload keeps the working snapshot
	assert.NoError(os.WriteFile(p, []byte(`{"categories": [{"name": "", "severity": "low"}]}`), 0644))
	assert.Error(s.Reload(ctx))
	cur, err := s.Snapshot(ctx)
	assert.NoError(err)
	assert.Equal(after.Version(), cur.Version())
}

func TestFileLexiconStoreRejectsBadStartup(t *testing.T) {
	assert := assert.New(t)

	p := filepath.Join(t.TempDir(), "lexicon.json")
	assert.NoError(os.WriteFile(p, []byte(`{"categories": [{"name": "c", "severity": "low", "terms": [{"surface": ""}]}]}`), 0644))
	_, err := NewFileLexiconStore(p)
	assert.ErrorIs(err, lexicon.ErrInvalidLexicon)
}
