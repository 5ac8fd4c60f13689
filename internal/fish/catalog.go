package fish

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type Species struct {
	Kind       Kind
	Name       string
	Motion     Motion
	Boss       bool
	Difficulty float64
	Image      string
}

type SpeciesJSON struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	MotionType int     `json:"motionType"`
	Boss       bool    `json:"boss"`
	Difficulty float64 `json:"difficulty"`
	Image      string  `json:"thumbnail"`
}

// Catalog maps fish kinds to the metadata used for naming and for the
// perfect-catch model.
type Catalog struct {
	byKind map[Kind]Species
	keys   []Kind
}

func LoadCatalogFromJSON(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var arr []SpeciesJSON
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("species list is empty")
	}

	byKind := make(map[Kind]Species, len(arr))
	for i, sj := range arr {
		if sj.Key == "" {
			return nil, fmt.Errorf("missing key at index %d", i)
		}
		k := Kind(sj.Key)
		if _, dup := byKind[k]; dup {
			return nil, fmt.Errorf("duplicate key %q", sj.Key)
		}
		if sj.Difficulty < 0 {
			return nil, fmt.Errorf("negative difficulty for %q", sj.Key)
		}
		name := sj.Name
		if name == "" {
			name = sj.Key
		}
		byKind[k] = Species{
			Kind:       k,
			Name:       name,
			Motion:     MotionFromType(sj.MotionType),
			Boss:       sj.Boss,
			Difficulty: sj.Difficulty,
			Image:      sj.Image,
		}
	}

	keys := make([]Kind, 0, len(byKind))
	for k := range byKind {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return &Catalog{byKind: byKind, keys: keys}, nil
}

func (c *Catalog) Get(k Kind) (Species, bool) {
	if c == nil {
		return Species{}, false
	}
	sp, ok := c.byKind[k]
	return sp, ok
}

func (c *Catalog) NameOf(k Kind) string {
	if sp, ok := c.Get(k); ok {
		return sp.Name
	}
	return "Unknown fish @ " + string(k)
}

// Suggest returns the known kind closest to key by edit distance, matching
// on either the key or the display name. It gives up when nothing is close.
func (c *Catalog) Suggest(key string) (Kind, bool) {
	if c == nil {
		return "", false
	}
	in := strings.ToLower(strings.TrimSpace(key))
	if in == "" {
		return "", false
	}
	best, bestDist := Kind(""), -1
	for _, k := range c.keys {
		sp := c.byKind[k]
		for _, cand := range []string{strings.ToLower(string(k)), strings.ToLower(sp.Name)} {
			dist := levenshtein.ComputeDistance(in, cand)
			if dist > suggestLimit(len(cand)) {
				continue
			}
			if bestDist < 0 || dist < bestDist {
				best, bestDist = k, dist
			}
		}
	}
	return best, bestDist >= 0
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func (c *Catalog) All() []Species {
	out := make([]Species, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.byKind[k])
	}
	return out
}

func (c *Catalog) Count() int { return len(c.keys) }
