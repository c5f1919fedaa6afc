package build

import "sort"

// ResourceType is the currency a champion spends on abilities.
type ResourceType string

const (
	ResourceMana   ResourceType = "mana"
	ResourceEnergy ResourceType = "energy"
	ResourceNone   ResourceType = "none"
)

// AbilityRanks holds the learned rank of Q, W, E and R.
type AbilityRanks [AbilityCount]int

// Valid reports whether every rank lies within its slot's bounds.
func (r AbilityRanks) Valid() bool {
	for slot, rank := range r {
		if rank < 0 || rank > MaxRankFor(slot) {
			return false
		}
	}
	return true
}

// StatValue is one line of a snapshot.
type StatValue struct {
	Base         float64 `json:"base"`
	ItemBonus    float64 `json:"itemBonus"`
	ItemPercent  float64 `json:"itemPercent"`
	AbilityBonus float64 `json:"abilityBonus"`
	Value        float64 `json:"value"`
	Suppressed   bool    `json:"suppressed,omitempty"`
}

// Snapshot is the derived-stat view of one champion with one build.
type Snapshot struct {
	ChampionID string             `json:"championId"`
	Level      int                `json:"level"`
	Resource   ResourceType       `json:"resource"`
	Stats      map[Stat]StatValue `json:"stats"`
}

// Value returns the final value of a stat.
func (s *Snapshot) Value(stat Stat) float64 {
	return s.Stats[stat].Value
}

// DetectResource infers the champion's ability resource from its stats.
func DetectResource(champion *ChampionProfile) ResourceType {
	mana := champion.Stats[StatMana]
	if mana.PerLevel == 0 && mana.Base > 0 {
		return ResourceEnergy
	}
	if len(champion.Abilities) > 0 && allCostsZero(champion.Abilities) {
		return ResourceNone
	}
	return ResourceMana
}

func allCostsZero(abilities []AbilitySlot) bool {
	for _, a := range abilities {
		for _, c := range a.Cost {
			if c != 0 {
				return false
			}
		}
	}
	return true
}

// ComputeStats aggregates level growth, ability rank bonuses and item
// bonuses into one snapshot. It never mutates its inputs and is
// deterministic: item and modifier contributions are summed in a fixed
// order.
func ComputeStats(champion *ChampionProfile, level int, ranks AbilityRanks, items []string, catalog *Catalog) Snapshot {
	rules := DefaultRules()
	if catalog != nil {
		rules = catalog.Rules()
	}
	level = ClampLevel(level)
	resource := DetectResource(champion)

	stats := make(map[Stat]StatValue, len(SnapshotStats))
	for _, stat := range BaseStats {
		stats[stat] = StatValue{Base: champion.Stats.scaled(stat, level)}
	}

	if catalog != nil {
		addItemBonuses(stats, items, catalog, rules)
	}
	addAbilityBonuses(stats, champion.Abilities, ranks, rules)

	for stat, v := range stats {
		v.Value = v.Base*(1+v.ItemPercent) + v.ItemBonus + v.AbilityBonus
		stats[stat] = v
	}

	applyResource(stats, resource)

	return Snapshot{
		ChampionID: champion.ID,
		Level:      level,
		Resource:   resource,
		Stats:      stats,
	}
}

func addItemBonuses(stats map[Stat]StatValue, items []string, catalog *Catalog, rules *Rules) {
	for _, id := range items {
		item, ok := catalog.Get(id)
		if !ok {
			continue
		}
		keys := make([]string, 0, len(item.Stats))
		for k := range item.Stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			mod, ok := rules.Modifiers[k]
			if !ok {
				continue
			}
			v := stats[mod.Stat]
			if mod.Percent {
				v.ItemPercent += item.Stats[k]
			} else {
				v.ItemBonus += item.Stats[k]
			}
			stats[mod.Stat] = v
		}
	}
}

func addAbilityBonuses(stats map[Stat]StatValue, abilities []AbilitySlot, ranks AbilityRanks, rules *Rules) {
	for _, a := range abilities {
		if a.Slot < 0 || a.Slot >= AbilityCount {
			continue
		}
		rank := ranks[a.Slot]
		if rank <= 0 {
			continue
		}
		for i := range rules.AbilityBonuses {
			rule := &rules.AbilityBonuses[i]
			if !rule.Matches(a.Description) {
				continue
			}
			v := stats[rule.Stat]
			v.AbilityBonus += float64(rank) * rule.PerRank
			stats[rule.Stat] = v
		}
	}
}

// applyResource moves the pool and regen lines onto the active resource
// and zeroes the inactive ones.
func applyResource(stats map[Stat]StatValue, resource ResourceType) {
	pool, regen := stats[StatMana], stats[StatManaRegen]
	off := StatValue{Suppressed: true}

	switch resource {
	case ResourceEnergy:
		stats[StatEnergy] = StatValue{Base: pool.Base, Value: pool.Base}
		stats[StatEnergyRegen] = StatValue{Base: regen.Base, Value: regen.Base}
		stats[StatMana] = off
		stats[StatManaRegen] = off
	case ResourceNone:
		stats[StatMana] = off
		stats[StatManaRegen] = off
		stats[StatEnergy] = off
		stats[StatEnergyRegen] = off
	default:
		stats[StatEnergy] = off
		stats[StatEnergyRegen] = off
	}
}
