package services

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// matchTable is the on-disk layout of the condition match table.
type matchTable struct {
	Conditions      map[string][]*entities.Specialist `json:"conditions"`
	Default         []*entities.Specialist            `json:"default"`
	DefaultLocation string                            `json:"default_location"`
}

type conditionEntry struct {
	key        string
	candidates []*entities.Specialist
}

// MatchCatalog maps a condition to its pre-scored candidate specialists.
// It is read-only after loading.
type MatchCatalog struct {
	entries         []conditionEntry
	fallback        []*entities.Specialist
	defaultLocation string
}

// LoadMatchCatalog reads the match table at path.
func LoadMatchCatalog(path string) (*MatchCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open match table: %w", err)
	}
	defer f.Close()

	return NewMatchCatalog(f)
}

// NewMatchCatalog decodes a match table from r.
func NewMatchCatalog(r io.Reader) (*MatchCatalog, error) {
	var table matchTable
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("failed to decode match table: %w", err)
	}
	if len(table.Default) == 0 {
		return nil, fmt.Errorf("match table has no default entry")
	}

	mc := &MatchCatalog{
		fallback:        table.Default,
		defaultLocation: table.DefaultLocation,
	}
	for condition, candidates := range table.Conditions {
		key := strings.ToLower(strings.TrimSpace(condition))
		if key == "" {
			return nil, fmt.Errorf("match table has an empty condition key")
		}
		mc.entries = append(mc.entries, conditionEntry{key: key, candidates: candidates})
	}
	sort.Slice(mc.entries, func(i, j int) bool { return mc.entries[i].key < mc.entries[j].key })

	return mc, nil
}

// Candidates returns copies of the entries mapped to the case condition, or of
// the default entries when the condition is unset or unknown. A condition
// matches a key it contains, ignoring case. Default entries without a location
// take the case location.
func (m *MatchCatalog) Candidates(c entities.ExtractedCase) []*entities.Specialist {
	condition := strings.ToLower(string(c.Condition))

	if condition != "" {
		for _, entry := range m.entries {
			if strings.Contains(condition, entry.key) {
				return cloneAll(entry.candidates)
			}
		}
	}

	out := cloneAll(m.fallback)
	for _, s := range out {
		if s.Location != "" {
			continue
		}
		s.Location = c.Location
		if s.Location == "" {
			s.Location = m.defaultLocation
		}
	}
	return out
}

// Conditions lists the mapped condition keys.
func (m *MatchCatalog) Conditions() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

func cloneAll(in []*entities.Specialist) []*entities.Specialist {
	out := make([]*entities.Specialist, 0, len(in))
	for _, s := range in {
		if s != nil {
			out = append(out, s.Clone())
		}
	}
	return out
}
