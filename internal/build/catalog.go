package build

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SummonersRiftMap is the content catalog key of the main map.
const SummonersRiftMap = "11"

// Catalog is the classified, id-indexed item catalog for one game version.
// It is read-only once built.
type Catalog struct {
	version    string
	rules      *Rules
	classifier *Classifier
	byID       map[string]*ItemRecord
	sorted     []*ItemRecord
}

// NewCatalog classifies every record, indexes it by id and orders it for
// display. Records are copied along with their slices and maps, so the
// caller may reuse them.
func NewCatalog(version string, records []ItemRecord, rules *Rules) *Catalog {
	if rules == nil {
		rules = DefaultRules()
	}
	c := &Catalog{
		version:    version,
		rules:      rules,
		classifier: NewClassifier(rules),
		byID:       make(map[string]*ItemRecord, len(records)),
		sorted:     make([]*ItemRecord, 0, len(records)),
	}

	for i := range records {
		item := records[i].Clone()
		c.classifier.Classify(&item)
		if _, dup := c.byID[item.ID]; dup {
			continue
		}
		c.byID[item.ID] = &item
		c.sorted = append(c.sorted, &item)
	}

	sort.Slice(c.sorted, func(i, j int) bool {
		return c.less(c.sorted[i], c.sorted[j])
	})
	return c
}

// Version is the content catalog version the items were loaded from.
func (c *Catalog) Version() string { return c.version }

// Rules returns the tables the catalog was classified with.
func (c *Catalog) Rules() *Rules { return c.rules }

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.sorted) }

// Get looks up an item by id.
func (c *Catalog) Get(id string) (*ItemRecord, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Items returns every item in display order.
func (c *Catalog) Items() []ItemRecord {
	out := make([]ItemRecord, len(c.sorted))
	for i, item := range c.sorted {
		out[i] = item.Clone()
	}
	return out
}

// ItemQuery narrows a catalog listing. Zero fields match everything.
type ItemQuery struct {
	Category Category
	Tag      string
	Search   string
}

// Query returns the items matching q in display order.
func (c *Catalog) Query(q ItemQuery) []ItemRecord {
	needle := FoldName(q.Search)
	out := make([]ItemRecord, 0)
	for _, item := range c.sorted {
		if q.Category != "" && item.Category != q.Category {
			continue
		}
		if q.Tag != "" && !item.HasTag(q.Tag) {
			continue
		}
		if needle != "" && !strings.Contains(FoldName(item.Name), needle) {
			continue
		}
		out = append(out, item.Clone())
	}
	return out
}

// Tags returns the distinct raw tags present in the catalog, sorted.
func (c *Catalog) Tags() []string {
	seen := make(map[string]struct{})
	for _, item := range c.sorted {
		for _, t := range item.Tags {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// SortIDs returns ids in catalog display order. Unknown ids keep their
// relative order and go last.
func (c *Catalog) SortIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := c.byID[out[i]]
		b, bok := c.byID[out[j]]
		switch {
		case aok && bok:
			return c.less(a, b)
		case aok:
			return true
		}
		return false
	})
	return out
}

// less orders by category, rarity (highest first), cost (highest first)
// and finally id.
func (c *Catalog) less(a, b *ItemRecord) bool {
	if ca, cb := c.rules.CategoryOrder(a.Category), c.rules.CategoryOrder(b.Category); ca != cb {
		return ca < cb
	}
	if ra, rb := a.Rarity.Rank(), b.Rarity.Rank(); ra != rb {
		return ra > rb
	}
	if a.TotalCost != b.TotalCost {
		return a.TotalCost > b.TotalCost
	}
	return lessID(a.ID, b.ID)
}

// lessID puts numeric ids first in numeric order, then the rest
// lexically. Equal numbers with different spellings fall back to the
// string so the order stays total.
func lessID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if numA, numB := errA == nil, errB == nil; numA != numB {
		return numA
	} else if numA && na != nb {
		return na < nb
	}
	return a < b
}

// Eligible reports whether an item belongs in the Summoner's Rift shop.
func Eligible(item *ItemRecord) bool {
	if !item.Maps[SummonersRiftMap] || !item.Purchasable {
		return false
	}
	if item.HasTag("Trinket") || item.RequiredChampion != "" || item.RequiredAlly != "" {
		return false
	}
	return item.Name != "" && item.Description != "" && item.Image != ""
}

// FilterEligible drops items outside the Summoner's Rift shop and collapses
// records sharing a folded name onto the one with the greatest id.
func FilterEligible(records []ItemRecord) []ItemRecord {
	byName := make(map[string]int)
	out := make([]ItemRecord, 0, len(records))
	for i := range records {
		item := &records[i]
		if !Eligible(item) {
			continue
		}
		key := FoldName(item.Name)
		if idx, ok := byName[key]; ok {
			if lessID(out[idx].ID, item.ID) {
				out[idx] = *item
			}
			continue
		}
		byName[key] = len(out)
		out = append(out, *item)
	}
	return out
}

// FoldName lowercases s and strips combining accents.
func FoldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

var (
	htmlTag   = regexp.MustCompile(`</?[^>]+(>|$)`)
	lineBreak = regexp.MustCompile(`\r\n|\r`)
)

// PlainDescription strips markup from a catalog description.
func PlainDescription(description string) string {
	s := strings.ReplaceAll(description, "<br>", "\n")
	s = htmlTag.ReplaceAllString(s, "")
	s = lineBreak.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
