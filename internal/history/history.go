// Package history keeps the checks made during a session and can export them to disk.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/csheth/mythchaser/internal/classify"
	"github.com/csheth/mythchaser/internal/staging"
)

// DefaultSize is how many distinct claims are remembered when no size is configured.
const DefaultSize = 20

// Entry is one completed check.
type Entry struct {
	ID          string    `json:"id"`
	Claim       string    `json:"claim"`
	Files       []string  `json:"files,omitempty"`
	Kind        string    `json:"kind"`
	Verdict     string    `json:"verdict,omitempty"`
	Explanation string    `json:"explanation,omitempty"`
	Message     string    `json:"message,omitempty"`
	CheckedAt   time.Time `json:"checkedAt"`
}

// NewEntry records a result returned for claim and its attachments.
func NewEntry(claim string, files staging.Collection, result classify.Result) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Claim:     strings.TrimSpace(claim),
		Files:     files.Names(),
		Kind:      result.Kind.String(),
		CheckedAt: time.Now().UTC(),
	}
	switch result.Kind {
	case classify.KindSuccess:
		entry.Verdict = result.Verdict
		entry.Explanation = result.Explanation
	case classify.KindError:
		entry.Message = result.Message
	default:
		entry.Message = result.Raw
	}
	if len(entry.Files) == 0 {
		entry.Files = nil
	}
	return entry
}

// Recent is a bounded most-recently-checked list. Checking the same claim again
// replaces its earlier entry instead of adding a second one.
type Recent struct {
	cache *lru.Cache[string, Entry]
}

// NewRecent returns a list holding up to size claims.
func NewRecent(size int) (*Recent, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, Entry](size)
	if err != nil {
		return nil, fmt.Errorf("history cache: %w", err)
	}
	return &Recent{cache: cache}, nil
}

// Add records an entry, evicting the least recently checked claim when full.
func (r *Recent) Add(entry Entry) {
	r.cache.Add(claimKey(entry.Claim), entry)
}

// Entries returns the remembered checks, newest first.
func (r *Recent) Entries() []Entry {
	keys := r.cache.Keys()
	entries := make([]Entry, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if entry, ok := r.cache.Peek(keys[i]); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Len is the number of remembered claims.
func (r *Recent) Len() int {
	return r.cache.Len()
}

func claimKey(claim string) string {
	return strings.ToLower(strings.Join(strings.Fields(claim), " "))
}
