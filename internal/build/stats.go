package build

// ScaledStat returns base + perLevel*(level-1). Levels outside [1,18] are
// clamped so the function stays total.
func ScaledStat(base, perLevel float64, level int) float64 {
	return base + perLevel*float64(ClampLevel(level)-1)
}

// ClampLevel bounds level to [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// levelInvariant stats ignore their growth term.
func levelInvariant(stat Stat) bool {
	return stat == StatMoveSpeed || stat == StatAttackRange
}

// scaled applies the growth formula to one entry of a stat block.
func (b StatBlock) scaled(stat Stat, level int) float64 {
	g, ok := b[stat]
	if !ok {
		return 0
	}
	if levelInvariant(stat) {
		return g.Base
	}
	return ScaledStat(g.Base, g.PerLevel, level)
}
