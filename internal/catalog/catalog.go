package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrDataLoad indicates the catalog source file is missing or malformed.
// It is fatal at startup; the server must not run without a catalog.
var ErrDataLoad = errors.New("catalog data load")

// Ordering selects the deterministic group ordering policy.
type Ordering string

const (
	// OrderingSource walks groups in the order their first item appears in
	// the catalog file. Deterministic for a given file because JSON text
	// has a fixed key order even though decoded maps do not.
	OrderingSource Ordering = "source"
	// OrderingAlphabetical sorts group names by Unicode collation.
	OrderingAlphabetical Ordering = "alphabetical"
)

// Group is a named cluster of diagnostic items awaiting confirmation.
type Group struct {
	Name  string
	Items []string
}

// Catalog is the ordered set of groups derived from the source mapping.
type Catalog struct {
	groups     []Group
	itemCount  int
	sourcePath string
}

// Load reads an item -> group JSON object from path and inverts it into an
// ordered group list. Items within a group keep their source order.
func Load(path string, ordering Ordering) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDataLoad, path, err)
	}

	pairs, err := decodeMapping(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrDataLoad, path, err)
	}

	byGroup := make(map[string]int)
	groups := make([]Group, 0)
	seen := make(map[string]struct{}, len(pairs))
	for _, pair := range pairs {
		if _, dup := seen[pair.item]; dup {
			return nil, fmt.Errorf("%w: parse %s: duplicate item %q", ErrDataLoad, path, pair.item)
		}
		seen[pair.item] = struct{}{}

		idx, ok := byGroup[pair.group]
		if !ok {
			idx = len(groups)
			byGroup[pair.group] = idx
			groups = append(groups, Group{Name: pair.group})
		}
		groups[idx].Items = append(groups[idx].Items, pair.item)
	}

	if ordering == OrderingAlphabetical {
		collator := collate.New(language.Und)
		collator.Sort(byName(groups))
	}

	return &Catalog{groups: groups, itemCount: len(pairs), sourcePath: path}, nil
}

// Len returns the number of groups.
func (c *Catalog) Len() int {
	return len(c.groups)
}

// ItemCount returns the total number of items across all groups.
func (c *Catalog) ItemCount() int {
	return c.itemCount
}

// SourcePath returns the file the catalog was loaded from.
func (c *Catalog) SourcePath() string {
	return c.sourcePath
}

// Group returns the group at position i, or false when i is out of range.
func (c *Catalog) Group(i int) (Group, bool) {
	if i < 0 || i >= len(c.groups) {
		return Group{}, false
	}
	return copyGroup(c.groups[i]), true
}

// Groups returns a copy of the ordered group list.
func (c *Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = copyGroup(g)
	}
	return out
}

func copyGroup(g Group) Group {
	items := make([]string, len(g.Items))
	copy(items, g.Items)
	return Group{Name: g.Name, Items: items}
}

type mappingPair struct {
	item  string
	group string
}

// decodeMapping walks the JSON document token by token so the textual key
// order of the file is preserved, which a plain map decode would discard.
func decodeMapping(data []byte) ([]mappingPair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("top-level value must be a JSON object")
	}

	var pairs []mappingPair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		value, ok := valTok.(string)
		if !ok {
			return nil, fmt.Errorf("item %q: group must be a string", key)
		}
		pairs = append(pairs, mappingPair{item: key, group: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pairs, nil
}

type byName []Group

func (s byName) Len() int { return len(s) }

func (s byName) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s byName) Bytes(i int) []byte { return []byte(s[i].Name) }
