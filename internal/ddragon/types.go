package ddragon

type Image struct {
	Full string `json:"full"`
}

type ChampionList struct {
	Version string                     `json:"version"`
	Data    map[string]ChampionSummary `json:"data"`
}

type ChampionSummary struct {
	ID      string   `json:"id"`
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Blurb   string   `json:"blurb"`
	Tags    []string `json:"tags"`
	Partype string   `json:"partype"`
	Image   Image    `json:"image"`
}

// ChampionStats mirrors the flat stat object of champion/{id}.json.
// AttackSpeedPerLevel is a percentage of the base attack speed.
type ChampionStats struct {
	HP                   float64 `json:"hp"`
	HPPerLevel           float64 `json:"hpperlevel"`
	MP                   float64 `json:"mp"`
	MPPerLevel           float64 `json:"mpperlevel"`
	MoveSpeed            float64 `json:"movespeed"`
	Armor                float64 `json:"armor"`
	ArmorPerLevel        float64 `json:"armorperlevel"`
	SpellBlock           float64 `json:"spellblock"`
	SpellBlockPerLevel   float64 `json:"spellblockperlevel"`
	AttackRange          float64 `json:"attackrange"`
	HPRegen              float64 `json:"hpregen"`
	HPRegenPerLevel      float64 `json:"hpregenperlevel"`
	MPRegen              float64 `json:"mpregen"`
	MPRegenPerLevel      float64 `json:"mpregenperlevel"`
	Crit                 float64 `json:"crit"`
	CritPerLevel         float64 `json:"critperlevel"`
	AttackDamage         float64 `json:"attackdamage"`
	AttackDamagePerLevel float64 `json:"attackdamageperlevel"`
	AttackSpeed          float64 `json:"attackspeed"`
	AttackSpeedPerLevel  float64 `json:"attackspeedperlevel"`
}

type Spell struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tooltip     string    `json:"tooltip"`
	MaxRank     int       `json:"maxrank"`
	Cost        []float64 `json:"cost"`
}

type Passive struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ChampionDetail struct {
	ChampionSummary
	Stats   ChampionStats `json:"stats"`
	Spells  []Spell       `json:"spells"`
	Passive *Passive      `json:"passive"`
}

type ItemList struct {
	Version string          `json:"version"`
	Data    map[string]Item `json:"data"`
}

type ItemGold struct {
	Base        int  `json:"base"`
	Total       int  `json:"total"`
	Sell        int  `json:"sell"`
	Purchasable bool `json:"purchasable"`
}

type Item struct {
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Plaintext        string             `json:"plaintext"`
	Tags             []string           `json:"tags"`
	From             []string           `json:"from"`
	Into             []string           `json:"into"`
	Gold             ItemGold           `json:"gold"`
	Stats            map[string]float64 `json:"stats"`
	Maps             map[string]bool    `json:"maps"`
	RequiredChampion string             `json:"requiredChampion"`
	RequiredAlly     string             `json:"requiredAlly"`
	InStore          *bool              `json:"inStore"`
	Image            Image              `json:"image"`
}
