package build

import (
	"sort"
	"strings"
)

// CanAdd decides whether candidate may join the current build. It returns
// nil or an *IncompatibilityError; rules are checked in order and the first
// violation wins. Items of current that are missing from the catalog are
// ignored by the category and uniqueness checks.
func CanAdd(candidate *ItemRecord, current []string, catalog *Catalog) error {
	if len(current) >= MaxItems {
		return &IncompatibilityError{Reason: CapacityExceeded, ItemID: candidate.ID}
	}

	for _, id := range current {
		if id == candidate.ID {
			return &IncompatibilityError{Reason: Duplicate, ItemID: candidate.ID}
		}
	}

	rules := catalog.Rules()
	if candidate.Category == rules.BootsCategory {
		for _, id := range current {
			if other, ok := catalog.Get(id); ok && other.Category == rules.BootsCategory {
				return &IncompatibilityError{Reason: BootsConflict, ItemID: candidate.ID, Conflicts: other.ID}
			}
		}
	}

	if isUnique(candidate, rules.UniqueMarker) {
		for _, id := range current {
			other, ok := catalog.Get(id)
			if !ok || !isUnique(other, rules.UniqueMarker) {
				continue
			}
			if uniqueOverlap(candidate, other) {
				return &IncompatibilityError{Reason: UniqueConflict, ItemID: candidate.ID, Conflicts: other.ID}
			}
		}
	}

	return nil
}

func isUnique(item *ItemRecord, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(strings.ToLower(item.Description), strings.ToLower(marker))
}

// uniqueOverlap decides whether two unique items belong to the same
// exclusivity group. An explicit group id on both items is authoritative;
// otherwise a shared first name word or an identical recipe counts.
func uniqueOverlap(a, b *ItemRecord) bool {
	if a.UniqueGroup != "" && b.UniqueGroup != "" {
		return a.UniqueGroup == b.UniqueGroup
	}
	if pa, pb := namePrefix(a.Name), namePrefix(b.Name); pa != "" && pa == pb {
		return true
	}
	return sameRecipe(a.From, b.From)
}

func namePrefix(name string) string {
	fields := strings.Fields(FoldName(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func sameRecipe(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}

// Remove returns current without id. Removing an absent id is a no-op.
func Remove(current []string, id string) []string {
	out := make([]string, 0, len(current))
	for _, v := range current {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
