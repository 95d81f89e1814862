package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, combatLua, aiLua string) *Engine {
	t.Helper()
	dir := t.TempDir()
	if combatLua != "" {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "combat"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "combat", "damage.lua"), []byte(combatLua), 0o644))
	}
	if aiLua != "" {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "ai"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ai", "mob.lua"), []byte(aiLua), 0o644))
	}
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestCalcAttackDamageFromLua(t *testing.T) {
	e := newTestEngine(t, `
function calc_attack_damage(ctx)
    return { is_hit = true, damage = ctx.attacker.damage - ctx.target.defense }
end
`, "")
	res := e.CalcAttackDamage(AttackContext{AttackerDamage: 10, TargetDefense: 3})
	assert.True(t, res.IsHit)
	assert.Equal(t, 7, res.Damage)
}

func TestCalcAttackDamageMiss(t *testing.T) {
	e := newTestEngine(t, `
function calc_attack_damage(ctx)
    return { is_hit = false, damage = 0 }
end
`, "")
	res := e.CalcAttackDamage(AttackContext{AttackerDamage: 10})
	assert.False(t, res.IsHit)
}

func TestCalcAttackDamageFallback(t *testing.T) {
	e := newTestEngine(t, "", "")
	res := e.CalcAttackDamage(AttackContext{AttackerDamage: 10, TargetDefense: 4})
	assert.True(t, res.IsHit)
	assert.GreaterOrEqual(t, res.Damage, 1)
}

func TestCalcAttackDamageLuaErrorFallsBack(t *testing.T) {
	e := newTestEngine(t, `
function calc_attack_damage(ctx)
    error("boom")
end
`, "")
	res := e.CalcAttackDamage(AttackContext{AttackerDamage: 10})
	assert.True(t, res.IsHit)
	assert.GreaterOrEqual(t, res.Damage, 1)
}

func TestCalcRegenAmountFromLua(t *testing.T) {
	e := newTestEngine(t, `
function calc_regen_amount(ctx)
    return math.floor(ctx.max_hp / 10)
end
`, "")
	assert.Equal(t, 6, e.CalcRegenAmount(RegenContext{HP: 30, MaxHP: 60}))
}

func TestCalcRegenAmountFallback(t *testing.T) {
	e := newTestEngine(t, "", "")
	assert.Equal(t, 3, e.CalcRegenAmount(RegenContext{HP: 10, MaxHP: 60}))
	assert.Equal(t, 1, e.CalcRegenAmount(RegenContext{HP: 1, MaxHP: 5}))
}

func TestCalcRegenAmountNonNumberFallsBack(t *testing.T) {
	e := newTestEngine(t, `
function calc_regen_amount(ctx)
    return "lots"
end
`, "")
	assert.Equal(t, 3, e.CalcRegenAmount(RegenContext{HP: 10, MaxHP: 60}))
}

func TestDecideMobAction(t *testing.T) {
	e := newTestEngine(t, "", `
function mob_action(ctx)
    if ctx.hp * 2 < ctx.max_hp then
        return "disengage"
    end
    return nil
end
`)
	cmd, ok := e.DecideMobAction(MobContext{HP: 10, MaxHP: 100})
	assert.True(t, ok)
	assert.Equal(t, "disengage", cmd)

	_, ok = e.DecideMobAction(MobContext{HP: 90, MaxHP: 100})
	assert.False(t, ok, "nil return defers to the Go state machine")
}

func TestDecideMobActionAbsent(t *testing.T) {
	e := newTestEngine(t, "", "")
	_, ok := e.DecideMobAction(MobContext{})
	assert.False(t, ok)
}

func TestMissingScriptsDirIsFine(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()
	res := e.CalcAttackDamage(AttackContext{AttackerDamage: 5})
	assert.True(t, res.IsHit)
}

func TestBrokenScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "combat"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "combat", "bad.lua"), []byte("this is not lua ("), 0o644))
	_, err := NewEngine(dir, zap.NewNop())
	assert.Error(t, err)
}
