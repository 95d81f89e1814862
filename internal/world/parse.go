package world

// Template fields are plain strings in YAML; parsing into the closed
// enums happens once at spawn. Unknown values fall back to the most
// inert option rather than erroring: bad data yields a passive critter,
// not a crashed tick.

func ParseCategory(s string) Category {
	switch s {
	case "mob":
		return CategoryMob
	case "combatant":
		return CategoryCombatant
	case "carrier":
		return CategoryCarrier
	default:
		return CategoryWildlife
	}
}

func ParseBehavior(s string) Behavior {
	switch s {
	case "defensive":
		return BehaviorDefensive
	case "aggressive":
		return BehaviorAggressive
	case "territorial":
		return BehaviorTerritorial
	default:
		return BehaviorPassive
	}
}

func ParseHostility(names []string) Hostility {
	var mask Hostility
	for _, n := range names {
		mask |= Hostility(ParseCategory(n))
	}
	return mask
}
