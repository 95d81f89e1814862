package scripting

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for tunable simulation logic. Go
// handles target detection and command execution; Lua decides damage
// rolls and, optionally, mob actions. Single-goroutine access only
// (simulation loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. A missing directory is not an error: every Lua entry point
// has a Go fallback.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, sub := range []string{"combat", "ai"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// AttackContext holds pre-packed data for one attack damage roll.
type AttackContext struct {
	AttackerDamage int
	AttackerHP     int
	AttackerMaxHP  int
	TargetDefense  int
	TargetHP       int
	TargetMaxHP    int
}

// AttackResult is returned by the Lua damage function.
type AttackResult struct {
	IsHit  bool
	Damage int
}

// CalcAttackDamage calls the Lua calc_attack_damage function, falling
// back to a flat formula when the script does not define it.
func (e *Engine) CalcAttackDamage(ctx AttackContext) AttackResult {
	fn := e.vm.GetGlobal("calc_attack_damage")
	if fn == lua.LNil {
		return fallbackDamage(ctx)
	}

	t := e.vm.NewTable()

	atk := e.vm.NewTable()
	atk.RawSetString("damage", lua.LNumber(ctx.AttackerDamage))
	atk.RawSetString("hp", lua.LNumber(ctx.AttackerHP))
	atk.RawSetString("max_hp", lua.LNumber(ctx.AttackerMaxHP))
	t.RawSetString("attacker", atk)

	tgt := e.vm.NewTable()
	tgt.RawSetString("defense", lua.LNumber(ctx.TargetDefense))
	tgt.RawSetString("hp", lua.LNumber(ctx.TargetHP))
	tgt.RawSetString("max_hp", lua.LNumber(ctx.TargetMaxHP))
	t.RawSetString("target", tgt)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_attack_damage error", zap.Error(err))
		return fallbackDamage(ctx)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_attack_damage returned non-table")
		return fallbackDamage(ctx)
	}

	return AttackResult{
		IsHit:  rt.RawGetString("is_hit") == lua.LTrue,
		Damage: int(lua.LVAsNumber(rt.RawGetString("damage"))),
	}
}

// fallbackDamage is the built-in roll: base damage reduced by half the
// defense, jittered ±25%, never below 1.
func fallbackDamage(ctx AttackContext) AttackResult {
	base := ctx.AttackerDamage - ctx.TargetDefense/2
	if base < 1 {
		base = 1
	}
	jitter := base / 4
	if jitter > 0 {
		base += rand.Intn(2*jitter+1) - jitter
	}
	if base < 1 {
		base = 1
	}
	return AttackResult{IsHit: true, Damage: base}
}

// RegenContext holds the input for one regeneration pulse.
type RegenContext struct {
	HP    int
	MaxHP int
}

// CalcRegenAmount calls the Lua calc_regen_amount function, falling
// back to a flat fraction of max HP when the script does not define it.
func (e *Engine) CalcRegenAmount(ctx RegenContext) int {
	fn := e.vm.GetGlobal("calc_regen_amount")
	if fn == lua.LNil {
		return fallbackRegen(ctx)
	}

	t := e.vm.NewTable()
	t.RawSetString("hp", lua.LNumber(ctx.HP))
	t.RawSetString("max_hp", lua.LNumber(ctx.MaxHP))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_regen_amount error", zap.Error(err))
		return fallbackRegen(ctx)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		return fallbackRegen(ctx)
	}
	return int(n)
}

// fallbackRegen restores a twentieth of max HP per pulse, never below 1.
func fallbackRegen(ctx RegenContext) int {
	amount := ctx.MaxHP / 20
	if amount < 1 {
		amount = 1
	}
	return amount
}

// MobContext is the decision input for the optional Lua mob policy.
type MobContext struct {
	TemplateID  int
	HP          int
	MaxHP       int
	TargetDist  float64 // -1 when no target
	AttackRange float64
	ChaseRange  float64
	HomeDist    float64
	CanAttack   bool
}

// DecideMobAction calls the Lua mob_action function if the scripts
// define one. Returns ("", false) when Lua declines or is absent, in
// which case the Go state machine decides.
func (e *Engine) DecideMobAction(ctx MobContext) (string, bool) {
	fn := e.vm.GetGlobal("mob_action")
	if fn == lua.LNil {
		return "", false
	}

	t := e.vm.NewTable()
	t.RawSetString("template_id", lua.LNumber(ctx.TemplateID))
	t.RawSetString("hp", lua.LNumber(ctx.HP))
	t.RawSetString("max_hp", lua.LNumber(ctx.MaxHP))
	t.RawSetString("target_dist", lua.LNumber(ctx.TargetDist))
	t.RawSetString("attack_range", lua.LNumber(ctx.AttackRange))
	t.RawSetString("chase_range", lua.LNumber(ctx.ChaseRange))
	t.RawSetString("home_dist", lua.LNumber(ctx.HomeDist))
	if ctx.CanAttack {
		t.RawSetString("can_attack", lua.LTrue)
	} else {
		t.RawSetString("can_attack", lua.LFalse)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua mob_action error", zap.Error(err), zap.Int("template_id", ctx.TemplateID))
		return "", false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	s, ok := result.(lua.LString)
	if !ok {
		return "", false
	}
	// Valid commands: attack, chase, disengage, wander, idle.
	return string(s), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
