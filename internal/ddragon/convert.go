package ddragon

import (
	"github.com/dom/league-builds/internal/build"
)

// ToProfile converts a champion record to the engine's profile. Attack
// speed growth is turned from a percentage into a flat per-level amount so
// every stat scales with the same linear formula.
func (c *Client) ToProfile(d *ChampionDetail, version string) *build.ChampionProfile {
	s := d.Stats
	p := &build.ChampionProfile{
		ID:      d.ID,
		Key:     d.Key,
		Name:    d.Name,
		Title:   d.Title,
		Blurb:   d.Blurb,
		Partype: d.Partype,
		Tags:    append([]string(nil), d.Tags...),
		Stats: build.StatBlock{
			build.StatHealth:       {Base: s.HP, PerLevel: s.HPPerLevel},
			build.StatMana:         {Base: s.MP, PerLevel: s.MPPerLevel},
			build.StatArmor:        {Base: s.Armor, PerLevel: s.ArmorPerLevel},
			build.StatMagicResist:  {Base: s.SpellBlock, PerLevel: s.SpellBlockPerLevel},
			build.StatAttackDamage: {Base: s.AttackDamage, PerLevel: s.AttackDamagePerLevel},
			build.StatAttackSpeed:  {Base: s.AttackSpeed, PerLevel: s.AttackSpeed * s.AttackSpeedPerLevel / 100},
			build.StatMoveSpeed:    {Base: s.MoveSpeed},
			build.StatAttackRange:  {Base: s.AttackRange},
			build.StatHealthRegen:  {Base: s.HPRegen, PerLevel: s.HPRegenPerLevel},
			build.StatManaRegen:    {Base: s.MPRegen, PerLevel: s.MPRegenPerLevel},
			build.StatCritChance:   {Base: s.Crit, PerLevel: s.CritPerLevel},
		},
		ImageURL: c.ImageURL(version, "champion", d.Image.Full),
		Version:  version,
	}

	for i, sp := range d.Spells {
		if i >= build.AbilityCount {
			break
		}
		p.Abilities = append(p.Abilities, build.AbilitySlot{
			Slot:        i,
			ID:          sp.ID,
			Name:        sp.Name,
			Description: sp.Description,
			Cost:        append([]float64(nil), sp.Cost...),
		})
	}
	if d.Passive != nil {
		p.Passive = &build.PassiveAbility{Name: d.Passive.Name, Description: d.Passive.Description}
	}
	return p
}

// ToItemRecords converts item.json entries. Image holds the full CDN URL.
func (c *Client) ToItemRecords(list *ItemList, version string) []build.ItemRecord {
	records := make([]build.ItemRecord, 0, len(list.Data))
	for id, it := range list.Data {
		purchasable := it.Gold.Purchasable
		if it.InStore != nil && !*it.InStore {
			purchasable = false
		}
		image := ""
		if it.Image.Full != "" {
			image = c.ImageURL(version, "item", it.Image.Full)
		}
		records = append(records, build.ItemRecord{
			ID:               id,
			Name:             it.Name,
			Description:      it.Description,
			Plaintext:        it.Plaintext,
			TotalCost:        it.Gold.Total,
			Tags:             it.Tags,
			From:             it.From,
			Into:             it.Into,
			Stats:            it.Stats,
			Purchasable:      purchasable,
			Maps:             it.Maps,
			RequiredChampion: it.RequiredChampion,
			RequiredAlly:     it.RequiredAlly,
			Image:            image,
		})
	}
	return records
}
