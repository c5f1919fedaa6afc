package build

// Classifier assigns a category and a rarity to catalog items.
type Classifier struct {
	rules *Rules
}

// NewClassifier returns a classifier backed by rules, or by the embedded
// defaults when rules is nil.
func NewClassifier(rules *Rules) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Rarity derives the crafting tier from the item's lineage lists.
func (c *Classifier) Rarity(item *ItemRecord) Rarity {
	hasFrom := len(item.From) > 0
	hasInto := len(item.Into) > 0

	switch {
	case hasFrom && !hasInto:
		return RarityLegendary
	case hasFrom && hasInto:
		return RarityEpic
	case !hasFrom && hasInto:
		return RarityBasic
	case item.TotalCost < c.rules.StarterCostThreshold:
		return RarityStarter
	}
	return RarityBasic
}

// Category returns the first configured category whose signals match the
// item, falling back to the default category.
func (c *Classifier) Category(item *ItemRecord) Category {
	for i := range c.rules.Categories {
		if matchesCategory(&c.rules.Categories[i], item) {
			return c.rules.Categories[i].Name
		}
	}
	return c.rules.DefaultCategory
}

// Classify fills in the derived fields of item.
func (c *Classifier) Classify(item *ItemRecord) {
	item.Category = c.Category(item)
	item.Rarity = c.Rarity(item)
}

func matchesCategory(rule *CategoryRule, item *ItemRecord) bool {
	for _, id := range rule.IDs {
		if id == item.ID {
			return true
		}
	}
	for _, tag := range rule.Tags {
		if item.HasTag(tag) {
			return true
		}
	}
	for _, key := range rule.Stats {
		if item.Stats[key] != 0 {
			return true
		}
	}
	return false
}
