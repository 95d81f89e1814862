package world

// Health is the per-entity hit-point ledger. All mutation goes through
// Damage/Heal/Kill/Revive; the dead transition happens exactly once per
// life and only Revive leaves it.
type Health struct {
	HP           int32
	MaxHP        int32
	Invulnerable bool
	Dead         bool

	// PreventDeath, when set, is consulted at the moment HP would reach
	// zero. Returning (hp, true) with hp > 0 vetoes the death and leaves
	// the entity at that HP (clamped to [1, MaxHP]). Last-stand style
	// effects install this.
	PreventDeath func(overkill int32) (int32, bool)
}

// HitResult reports what a damage application actually did.
type HitResult struct {
	Applied  int32 // HP actually removed (0 = no effect)
	Died     bool  // this call caused the death transition
	Overkill int32 // requested damage beyond what was needed to kill
}

func NewHealth(maxHP int32) *Health {
	if maxHP <= 0 {
		maxHP = 1
	}
	return &Health{HP: maxHP, MaxHP: maxHP}
}

// Damage removes up to amount HP. Invalid amounts, dead entities, and
// invulnerable entities all yield a zero result; callers on the hot
// path branch on Applied == 0, never on an error.
func (h *Health) Damage(amount int32) HitResult {
	if amount <= 0 || h.Dead || h.Invulnerable {
		return HitResult{}
	}
	applied := amount
	if applied > h.HP {
		applied = h.HP
	}
	h.HP -= applied
	if h.HP > 0 {
		return HitResult{Applied: applied}
	}
	overkill := amount - applied
	if h.PreventDeath != nil {
		if newHP, ok := h.PreventDeath(overkill); ok && newHP > 0 {
			if newHP > h.MaxHP {
				newHP = h.MaxHP
			}
			h.HP = newHP
			return HitResult{Applied: applied}
		}
	}
	h.Dead = true
	return HitResult{Applied: applied, Died: true, Overkill: overkill}
}

// Heal restores up to amount HP, clamped at MaxHP. Dead entities cannot
// be healed; Revive is the only way out of the dead state.
func (h *Health) Heal(amount int32) int32 {
	if amount <= 0 || h.Dead {
		return 0
	}
	applied := h.MaxHP - h.HP
	if applied > amount {
		applied = amount
	}
	h.HP += applied
	return applied
}

// Kill removes all remaining HP, ignoring invulnerability. The
// PreventDeath hook is still honored, consistent with Damage; a caller
// that must guarantee death clears the hook first.
func (h *Health) Kill() HitResult {
	if h.Dead {
		return HitResult{}
	}
	applied := h.HP
	h.HP = 0
	if h.PreventDeath != nil {
		if newHP, ok := h.PreventDeath(0); ok && newHP > 0 {
			if newHP > h.MaxHP {
				newHP = h.MaxHP
			}
			h.HP = newHP
			return HitResult{Applied: applied}
		}
	}
	h.Dead = true
	return HitResult{Applied: applied, Died: true}
}

// Revive clears the dead flag and sets HP to hp clamped to [0, MaxHP].
func (h *Health) Revive(hp int32) {
	if hp < 0 {
		hp = 0
	}
	if hp > h.MaxHP {
		hp = h.MaxHP
	}
	h.Dead = false
	h.HP = hp
}
