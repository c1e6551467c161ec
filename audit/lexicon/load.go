package lexicon

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/bulletin-labs/prahari/audit/helpers"
	"github.com/bulletin-labs/prahari/audit/keyword"
)

// ErrInvalidLexicon indicates a malformed term configuration. Bad lexicons
// are rejected wholesale at load time and never reach matching.
var ErrInvalidLexicon = errors.New("invalid lexicon")

// DefaultRedactionMarker is substituted for high-severity matches when the
// configuration does not provide its own marker.
const DefaultRedactionMarker = "[redacted]"

const DefaultNativeScript = "Devanagari"

type TermConfig struct {
	Surface string `json:"surface"`
	// optional override of the category severity
	Severity    string `json:"severity,omitempty"`
	Replacement string `json:"replacement,omitempty"`
}

type CategoryConfig struct {
	Name     string       `json:"name"`
	Severity string       `json:"severity"`
	Terms    []TermConfig `json:"terms"`
}

// Config is the on-disk lexicon format. Category order in the file is the
// declaration order used for match tie-breaking.
type Config struct {
	NativeScript       string           `json:"native_script,omitempty"`
	RedactionMarker    string           `json:"redaction_marker,omitempty"`
	AllowAfterCleaning []string         `json:"allow_after_cleaning,omitempty"`
	Categories         []CategoryConfig `json:"categories"`
}

// ParseConfig decodes and builds a lexicon snapshot from raw JSON.
func ParseConfig(raw []byte) (*Lexicon, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}
	lex, err := build(&cfg)
	if err != nil {
		return nil, err
	}
	lex.version = helpers.HashOfString(string(raw))
	return lex, nil
}

// LoadFromFileJSON reads a lexicon config from a JSON file on disk.
func LoadFromFileJSON(p string) (*Lexicon, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ParseConfig(raw)
}

func build(cfg *Config) (*Lexicon, error) {
	scriptName := cfg.NativeScript
	if scriptName == "" {
		scriptName = DefaultNativeScript
	}
	cls, err := keyword.NewClassifierForScript(scriptName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}

	marker := cfg.RedactionMarker
	if marker == "" {
		marker = DefaultRedactionMarker
	}

	lex := &Lexicon{
		byKey:   make(map[string]*Term),
		allowed: make(map[string]bool),
		marker:  marker,
	}
	for _, surface := range cfg.AllowAfterCleaning {
		lex.allowed[keyword.NormalizeText(surface)] = true
	}
	seen := make(map[string]bool)

	for _, cat := range cfg.Categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("%w: category with empty name", ErrInvalidLexicon)
		}
		catSev, err := ParseSeverity(cat.Severity)
		if err != nil {
			return nil, fmt.Errorf("%w: category %s: %v", ErrInvalidLexicon, cat.Name, err)
		}
		lex.categories = append(lex.categories, cat.Name)

		for _, tc := range cat.Terms {
			term, err := buildTerm(cat.Name, catSev, tc, cls, marker)
			if err != nil {
				return nil, err
			}
			key := termKey(term.Category, term.Surface)
			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("%w: duplicate term %q in category %s", ErrInvalidLexicon, term.Surface, cat.Name)
			}
			seen[key] = true
			lex.terms = append(lex.terms, term)
		}
	}
	// indexed after all appends so pointers survive slice growth
	for i := range lex.terms {
		t := &lex.terms[i]
		lex.byKey[termKey(t.Category, t.Surface)] = t
	}
	return lex, nil
}

func buildTerm(category string, catSev Severity, tc TermConfig, cls *keyword.Classifier, marker string) (Term, error) {
	surface := keyword.NormalizeText(tc.Surface)
	if surface == "" {
		return Term{}, fmt.Errorf("%w: empty surface form in category %s", ErrInvalidLexicon, category)
	}

	sev := catSev
	if tc.Severity != "" {
		var err error
		sev, err = ParseSeverity(tc.Severity)
		if err != nil {
			return Term{}, fmt.Errorf("%w: term %q: %v", ErrInvalidLexicon, surface, err)
		}
	}

	// high-severity content is excised, never paraphrased
	if sev == SeverityHigh && tc.Replacement != "" && tc.Replacement != marker {
		return Term{}, fmt.Errorf("%w: high-severity term %q must not carry a softening replacement", ErrInvalidLexicon, surface)
	}

	term := Term{
		Category:    category,
		Surface:     surface,
		Severity:    sev,
		Replacement: keyword.NormalizeText(tc.Replacement),
	}
	if cls.IsNative(surface) {
		term.Script = ScriptNative
	} else {
		term.Script = ScriptRoman
		term.pattern = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(surface))
	}
	return term, nil
}
