package build

import (
	"maps"
	"slices"
)

// Stat names one derived champion attribute.
type Stat string

const (
	StatHealth       Stat = "health"
	StatMana         Stat = "mana"
	StatEnergy       Stat = "energy"
	StatArmor        Stat = "armor"
	StatMagicResist  Stat = "magicResist"
	StatAttackDamage Stat = "attackDamage"
	StatAttackSpeed  Stat = "attackSpeed"
	StatMoveSpeed    Stat = "moveSpeed"
	StatAttackRange  Stat = "attackRange"
	StatHealthRegen  Stat = "healthRegen"
	StatManaRegen    Stat = "manaRegen"
	StatEnergyRegen  Stat = "energyRegen"
	StatCritChance   Stat = "critChance"
)

// BaseStats are the attributes carried by a champion's stat block.
// Energy champions report their pool through the mana growth values.
var BaseStats = []Stat{
	StatHealth,
	StatMana,
	StatArmor,
	StatMagicResist,
	StatAttackDamage,
	StatAttackSpeed,
	StatMoveSpeed,
	StatAttackRange,
	StatHealthRegen,
	StatManaRegen,
	StatCritChance,
}

// SnapshotStats lists every stat a snapshot reports, in display order.
var SnapshotStats = []Stat{
	StatHealth,
	StatMana,
	StatEnergy,
	StatArmor,
	StatMagicResist,
	StatAttackDamage,
	StatAttackSpeed,
	StatMoveSpeed,
	StatAttackRange,
	StatHealthRegen,
	StatManaRegen,
	StatEnergyRegen,
	StatCritChance,
}

// Growth is a base value plus the amount gained per level after the first.
type Growth struct {
	Base     float64 `json:"base"`
	PerLevel float64 `json:"perLevel"`
}

// StatBlock holds the growth values of a champion keyed by stat.
type StatBlock map[Stat]Growth

const (
	MinLevel = 1
	MaxLevel = 18

	// MaxItems is the number of item slots in a build.
	MaxItems = 6
)

// Ability slot ordinals.
const (
	SlotQ = iota
	SlotW
	SlotE
	SlotR
	AbilityCount
)

var slotKeys = [AbilityCount]string{"Q", "W", "E", "R"}

// AbilitySlot describes one of the four champion abilities.
type AbilitySlot struct {
	Slot        int       `json:"slot"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cost        []float64 `json:"cost"`
}

// Key returns the keyboard letter of the slot.
func (a AbilitySlot) Key() string {
	if a.Slot < 0 || a.Slot >= AbilityCount {
		return ""
	}
	return slotKeys[a.Slot]
}

// MaxRank is 3 for the ultimate and 5 for the basic abilities.
func (a AbilitySlot) MaxRank() int {
	return MaxRankFor(a.Slot)
}

// MaxRankFor returns the highest rank an ability in the given slot may reach.
func MaxRankFor(slot int) int {
	if slot == SlotR {
		return 3
	}
	return 5
}

// PassiveAbility is display-only.
type PassiveAbility struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ChampionProfile is the immutable static data for one champion.
type ChampionProfile struct {
	ID        string          `json:"id"`
	Key       string          `json:"key"`
	Name      string          `json:"name"`
	Title     string          `json:"title"`
	Blurb     string          `json:"blurb"`
	Partype   string          `json:"partype"`
	Tags      []string        `json:"tags"`
	Stats     StatBlock       `json:"stats"`
	Abilities []AbilitySlot   `json:"abilities"`
	Passive   *PassiveAbility `json:"passive,omitempty"`
	ImageURL  string          `json:"imageUrl"`
	Version   string          `json:"version"`
}

// Rarity is the crafting tier of an item.
type Rarity string

const (
	RarityStarter   Rarity = "STARTER"
	RarityBasic     Rarity = "BASIC"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

// Rank orders rarities from STARTER (1) to LEGENDARY (4).
func (r Rarity) Rank() int {
	switch r {
	case RarityLegendary:
		return 4
	case RarityEpic:
		return 3
	case RarityBasic:
		return 2
	case RarityStarter:
		return 1
	}
	return 0
}

// Color is the display colour of the tier.
func (r Rarity) Color() string {
	switch r {
	case RarityLegendary:
		return "#ffd700"
	case RarityEpic:
		return "#c931db"
	case RarityBasic:
		return "#87ceeb"
	case RarityStarter:
		return "#90ee90"
	}
	return "#ffffff"
}

// Category is the role-affinity label of an item.
type Category string

// ItemRecord is one entry of the item catalog. Category and Rarity are
// filled in by the classifier when the catalog is built.
type ItemRecord struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Plaintext        string             `json:"plaintext"`
	TotalCost        int                `json:"totalCost"`
	Tags             []string           `json:"tags"`
	From             []string           `json:"from,omitempty"`
	Into             []string           `json:"into,omitempty"`
	Stats            map[string]float64 `json:"stats"`
	Purchasable      bool               `json:"purchasable"`
	Maps             map[string]bool    `json:"maps,omitempty"`
	RequiredChampion string             `json:"requiredChampion,omitempty"`
	RequiredAlly     string             `json:"requiredAlly,omitempty"`
	Image            string             `json:"image"`
	UniqueGroup      string             `json:"uniqueGroup,omitempty"`

	Category Category `json:"category"`
	Rarity   Rarity   `json:"rarity"`
}

// Clone returns a copy that shares no slices or maps with i.
func (i ItemRecord) Clone() ItemRecord {
	i.Tags = slices.Clone(i.Tags)
	i.From = slices.Clone(i.From)
	i.Into = slices.Clone(i.Into)
	i.Stats = maps.Clone(i.Stats)
	i.Maps = maps.Clone(i.Maps)
	return i
}

// HasTag reports whether the raw catalog tags include tag.
func (i *ItemRecord) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SavedBuild is a build as returned by the persistence collaborator.
type SavedBuild struct {
	ID       string `json:"id"`
	Champion string `json:"champion"`
	Items    string `json:"items"`
	Runes    string `json:"runes"`
}
