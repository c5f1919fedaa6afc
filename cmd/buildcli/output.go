package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dom/league-builds/internal/build"
	"github.com/dom/league-builds/internal/client"
)

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseRanks(s string) (build.AbilityRanks, error) {
	var ranks build.AbilityRanks
	parts := splitList(s)
	if len(parts) != build.AbilityCount {
		return ranks, fmt.Errorf("--ranks needs %d values, got %d", build.AbilityCount, len(parts))
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return ranks, fmt.Errorf("--ranks: %q is not a number", p)
		}
		ranks[i] = n
	}
	if !ranks.Valid() {
		return ranks, fmt.Errorf("--ranks %s exceeds the per-slot maximum", s)
	}
	return ranks, nil
}

func printBuild(s *build.Session) {
	champ := s.Champion()
	catalog := s.Catalog()
	snap := s.Snapshot()

	fmt.Println()
	fmt.Printf("=== %s, %s (level %d, %s) ===\n", champ.Name, champ.Title, snap.Level, snap.Resource)

	fmt.Println()
	fmt.Println("Items:")
	items := s.Items()
	if len(items) == 0 {
		fmt.Println("  (none)")
	}
	total := 0
	for _, id := range catalog.SortIDs(items) {
		if it, ok := catalog.Get(id); ok {
			fmt.Printf("  %-8s %-32s %-12s %5dg\n", it.ID, it.Name, it.Category, it.TotalCost)
			total += it.TotalCost
		}
	}
	if total > 0 {
		fmt.Printf("  %-8s %-32s %-12s %5dg\n", "", "", "total", total)
	}

	ranks := s.Ranks()
	fmt.Println()
	fmt.Print("Abilities:")
	for i, a := range champ.Abilities {
		fmt.Printf("  %s %d/%d", a.Key(), ranks[i], a.MaxRank())
	}
	fmt.Println()

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "stat\tbase\titems\tabilities\ttotal\t")
	for _, stat := range build.SnapshotStats {
		v, ok := snap.Stats[stat]
		if !ok || v.Suppressed {
			continue
		}
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%.2f\t%.2f\t\n", stat, v.Base, itemColumn(v), v.AbilityBonus, v.Value)
	}
	w.Flush()
}

func itemColumn(v build.StatValue) string {
	if v.ItemPercent != 0 {
		return fmt.Sprintf("%+.0f%%", v.ItemPercent*100)
	}
	return fmt.Sprintf("%.2f", v.ItemBonus)
}

func printItems(resp *client.ItemsResponse) {
	fmt.Printf("Patch %s, %d items\n\n", resp.Version, len(resp.Items))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "id\tname\tcategory\trarity\tcost\tdescription")
	for _, it := range resp.Items {
		desc := it.PlainDescription
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", it.ID, it.Name, it.Category, it.Rarity, it.TotalCost, desc)
	}
	w.Flush()
}

func printBuilds(builds []client.Build) {
	if len(builds) == 0 {
		fmt.Println("No saved builds")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "id\tchampion\titems\tupdated")
	for _, b := range builds {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Champion, b.Items, b.UpdatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}
