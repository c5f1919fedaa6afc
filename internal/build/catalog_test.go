package build_test

import (
	"testing"

	"github.com/dom/league-builds/internal/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []build.ItemRecord) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestCatalog_ClassifiesAndIndexes(t *testing.T) {
	c := testCatalog()
	require.Equal(t, len(testItems()), c.Len())
	assert.Equal(t, "14.1.1", c.Version())

	ie, ok := c.Get("3031")
	require.True(t, ok)
	assert.Equal(t, build.RarityLegendary, ie.Rarity)
	assert.Equal(t, build.Category("marksman"), ie.Category)

	boots, ok := c.Get("1001")
	require.True(t, ok)
	assert.Equal(t, build.Category("boots"), boots.Category)
	assert.Equal(t, build.RarityBasic, boots.Rarity)

	_, ok = c.Get("9999")
	assert.False(t, ok)
}

func TestCatalog_SortOrder(t *testing.T) {
	c := testCatalog()

	want := []string{
		// boots: legendary by cost, then basic
		"3047", "3006", "1001",
		// consumable
		"2003",
		// mage
		"3089",
		// marksman: legendary by cost, epic (equal cost, by id), basic, starter
		"3031", "3153", "3071", "3044", "3133", "1037", "1036", "1055",
		// tank
		"3068", "3075", "1054",
	}
	assert.Equal(t, want, ids(c.Items()))
}

func TestCatalog_SortTiesBrokenByID(t *testing.T) {
	c := build.NewCatalog("v", []build.ItemRecord{
		item("300", "B", 1000, tags("Armor"), from("1")),
		item("20", "A", 1000, tags("Armor"), from("1")),
		item("1000", "C", 1000, tags("Armor"), from("1")),
	}, nil)
	assert.Equal(t, []string{"20", "300", "1000"}, ids(c.Items()))
}

func TestCatalog_SortMixedIDsIgnoresInputOrder(t *testing.T) {
	records := []build.ItemRecord{
		item("9", "A", 1000, tags("Armor"), from("1")),
		item("10", "B", 1000, tags("Armor"), from("1")),
		item("1a", "C", 1000, tags("Armor"), from("1")),
		item("010", "D", 1000, tags("Armor"), from("1")),
	}

	want := []string{"9", "010", "10", "1a"}
	for shift := range records {
		rotated := append(append([]build.ItemRecord{}, records[shift:]...), records[:shift]...)
		c := build.NewCatalog("v", rotated, nil)
		assert.Equal(t, want, ids(c.Items()), "rotation %d", shift)
		assert.Equal(t, want, c.SortIDs([]string{"1a", "10", "010", "9"}), "rotation %d", shift)
	}
}

func TestCatalog_DoesNotShareRecords(t *testing.T) {
	records := []build.ItemRecord{
		item("3071", "Black Cleaver", 3000, tags("Damage"), from("3044"), stat("FlatPhysicalDamageMod", 40)),
	}
	c := build.NewCatalog("v", records, nil)

	records[0].Tags[0] = "Changed"
	records[0].Stats["FlatPhysicalDamageMod"] = 1

	got, ok := c.Get("3071")
	require.True(t, ok)
	assert.Equal(t, []string{"Damage"}, got.Tags)
	assert.Equal(t, 40.0, got.Stats["FlatPhysicalDamageMod"])

	listed := c.Items()
	listed[0].From[0] = "9999"
	listed[0].Stats["FlatPhysicalDamageMod"] = 2

	got, _ = c.Get("3071")
	assert.Equal(t, []string{"3044"}, got.From)
	assert.Equal(t, 40.0, got.Stats["FlatPhysicalDamageMod"])
}

func TestCatalog_Query(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name  string
		query build.ItemQuery
		want  []string
	}{
		{"category", build.ItemQuery{Category: "mage"}, []string{"3089"}},
		{"tag", build.ItemQuery{Tag: "CriticalStrike"}, []string{"3031"}},
		{"search is case and accent insensitive", build.ItemQuery{Search: "DORÁN"}, []string{"1055", "1054"}},
		{"combined", build.ItemQuery{Category: "tank", Search: "doran"}, []string{"1054"}},
		{"no match", build.ItemQuery{Search: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.Query(tt.query)))
		})
	}
}

func TestCatalog_SortIDs(t *testing.T) {
	c := testCatalog()
	got := c.SortIDs([]string{"1054", "unknown", "3031", "3006"})
	assert.Equal(t, []string{"3006", "3031", "1054", "unknown"}, got)
}

func TestCatalog_Tags(t *testing.T) {
	c := build.NewCatalog("v", []build.ItemRecord{
		item("1", "A", 1, tags("Health", "Armor")),
		item("2", "B", 1, tags("Armor")),
	}, nil)
	assert.Equal(t, []string{"Armor", "Health"}, c.Tags())
}

func TestFilterEligible(t *testing.T) {
	aram := item("10", "Aram Only", 100)
	aram.Maps = map[string]bool{"12": true}

	notForSale := item("11", "Hidden", 100)
	notForSale.Purchasable = false

	ornn := item("12", "Upgrade", 100)
	ornn.RequiredAlly = "Ornn"

	champOnly := item("13", "Kalista Spear", 100)
	champOnly.RequiredChampion = "Kalista"

	noImage := item("14", "Broken", 100)
	noImage.Image = ""

	records := []build.ItemRecord{
		item("1", "Long Sword", 350),
		item("2", "Ward", 0, tags("Trinket")),
		aram, notForSale, ornn, champOnly, noImage,
		item("3100", "Lich Bane", 3000),
		item("223100", "Lích Bane", 3000),
	}

	got := build.FilterEligible(records)
	assert.Equal(t, []string{"1", "223100"}, ids(got), "duplicate names keep the greater id")
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, "lame de doran", build.FoldName("  Lame de Dorán "))
	assert.Equal(t, "epee", build.FoldName("Épée"))
}

func TestPlainDescription(t *testing.T) {
	in := "<mainText><stats>+10 Attack Damage</stats><br><passive>Edge</passive>\r\nText</mainText>"
	assert.Equal(t, "+10 Attack Damage\nEdge\nText", build.PlainDescription(in))
}

func TestRarity_RankAndColor(t *testing.T) {
	assert.Greater(t, build.RarityLegendary.Rank(), build.RarityEpic.Rank())
	assert.Greater(t, build.RarityEpic.Rank(), build.RarityBasic.Rank())
	assert.Greater(t, build.RarityBasic.Rank(), build.RarityStarter.Rank())
	assert.Equal(t, "#ffd700", build.RarityLegendary.Color())
}
