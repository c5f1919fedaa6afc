package build_test

import (
	"github.com/dom/league-builds/internal/build"
)

func testChampion() *build.ChampionProfile {
	return &build.ChampionProfile{
		ID:   "Garen",
		Name: "Garen",
		Tags: []string{"Fighter", "Tank"},
		Stats: build.StatBlock{
			build.StatHealth:       {Base: 500, PerLevel: 80},
			build.StatMana:         {Base: 300, PerLevel: 40},
			build.StatArmor:        {Base: 36, PerLevel: 4.2},
			build.StatMagicResist:  {Base: 32, PerLevel: 1.55},
			build.StatAttackDamage: {Base: 69, PerLevel: 4.5},
			build.StatAttackSpeed:  {Base: 0.625, PerLevel: 0.03},
			build.StatMoveSpeed:    {Base: 340, PerLevel: 10},
			build.StatAttackRange:  {Base: 175, PerLevel: 5},
			build.StatHealthRegen:  {Base: 8, PerLevel: 0.5},
			build.StatManaRegen:    {Base: 7, PerLevel: 0.5},
			build.StatCritChance:   {Base: 0, PerLevel: 0},
		},
		Abilities: []build.AbilitySlot{
			{Slot: build.SlotQ, Name: "Decisive Strike", Description: "Garen gains bonus movement speed.", Cost: []float64{30, 30, 30, 30, 30}},
			{Slot: build.SlotW, Name: "Courage", Description: "Garen gains bonus armor and bonus magic resist.", Cost: []float64{0}},
			{Slot: build.SlotE, Name: "Judgment", Description: "Garen spins.", Cost: []float64{0}},
			{Slot: build.SlotR, Name: "Demacian Justice", Description: "Garen calls upon the might of Demacia.", Cost: []float64{100}},
		},
	}
}

func item(id, name string, cost int, opts ...func(*build.ItemRecord)) build.ItemRecord {
	rec := build.ItemRecord{
		ID:          id,
		Name:        name,
		Description: "<mainText>" + name + "</mainText>",
		TotalCost:   cost,
		Stats:       map[string]float64{},
		Purchasable: true,
		Maps:        map[string]bool{build.SummonersRiftMap: true},
		Image:       id + ".png",
	}
	for _, o := range opts {
		o(&rec)
	}
	return rec
}

func tags(t ...string) func(*build.ItemRecord) {
	return func(r *build.ItemRecord) { r.Tags = t }
}

func from(ids ...string) func(*build.ItemRecord) {
	return func(r *build.ItemRecord) { r.From = ids }
}

func into(ids ...string) func(*build.ItemRecord) {
	return func(r *build.ItemRecord) { r.Into = ids }
}

func stat(key string, v float64) func(*build.ItemRecord) {
	return func(r *build.ItemRecord) { r.Stats[key] = v }
}

func unique() func(*build.ItemRecord) {
	return func(r *build.ItemRecord) { r.Description += "<unique>UNIQUE Passive</unique>" }
}

func testItems() []build.ItemRecord {
	return []build.ItemRecord{
		item("1001", "Boots", 300, tags("Boots"), into("3006", "3047")),
		item("3006", "Berserker's Greaves", 1100, tags("Boots", "AttackSpeed"), from("1001"), stat("PercentAttackSpeedMod", 0.35)),
		item("3047", "Plated Steelcaps", 1200, tags("Boots", "Armor"), from("1001"), stat("FlatArmorMod", 20)),
		item("1036", "Long Sword", 350, tags("Damage"), into("3133", "3031"), stat("FlatPhysicalDamageMod", 10)),
		item("1037", "Pickaxe", 875, tags("Damage"), into("3031"), stat("FlatPhysicalDamageMod", 25)),
		item("3133", "Caulfield's Warhammer", 1100, tags("Damage"), from("1036", "1036"), into("3071"), stat("FlatPhysicalDamageMod", 25)),
		item("3031", "Infinity Edge", 3400, tags("Damage", "CriticalStrike"), from("1038", "1037"), stat("FlatPhysicalDamageMod", 65), stat("FlatCritChanceMod", 0.25)),
		item("3071", "Black Cleaver", 3000, tags("Damage", "Health"), from("3044", "3133"), stat("FlatPhysicalDamageMod", 40), stat("FlatHPPoolMod", 400)),
		item("3068", "Sunfire Aegis", 2700, tags("Health", "Armor"), from("3751", "1031"), stat("FlatHPPoolMod", 350), stat("FlatArmorMod", 50)),
		item("3075", "Thornmail", 2450, tags("Armor", "Health"), from("3076", "1011"), stat("FlatHPPoolMod", 350), stat("FlatArmorMod", 60)),
		item("3089", "Rabadon's Deathcap", 3600, tags("SpellDamage"), from("1058", "1058"), stat("FlatMagicDamageMod", 130)),
		item("2003", "Health Potion", 50, tags("Consumable")),
		item("1055", "Doran's Blade", 450, tags("Damage", "Lane"), unique(), stat("FlatPhysicalDamageMod", 8), stat("FlatHPPoolMod", 80)),
		item("1054", "Doran's Shield", 450, tags("Health", "Lane"), unique(), stat("FlatHPPoolMod", 110)),
		item("3044", "Phage", 1100, tags("Health", "Damage"), from("1028", "1036"), into("3071"), stat("FlatHPPoolMod", 200), stat("FlatPhysicalDamageMod", 15)),
		item("3153", "Blade of the Ruined King", 3200, tags("AttackSpeed", "LifeSteal"), from("1043", "1053"), stat("PercentAttackSpeedMod", 0.25), stat("FlatPhysicalDamageMod", 40)),
	}
}

func testCatalog() *build.Catalog {
	return build.NewCatalog("14.1.1", testItems(), nil)
}
