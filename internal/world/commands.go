package world

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrInsufficientData = errors.New("insufficient data")
	ErrLocked           = errors.New("requirement not met")
	ErrLimitReached     = errors.New("limit reached")
	ErrInvalidSlot      = errors.New("invalid key")
	ErrOffline          = errors.New("systems offline")
)

// Requirement gates a command behind player progress.
type Requirement string

const (
	ReqNone   Requirement = ""
	ReqStory  Requirement = "story"
	ReqCombat Requirement = "combat"
	ReqLight  Requirement = "light_2"
)

type Action string

const (
	ActScan     Action = "scan"
	ActLight    Action = "light"
	ActCombat   Action = "combat"
	ActCloak    Action = "cloak"
	ActHeal     Action = "heal"
	ActSpeed    Action = "speed"
	ActFireRate Action = "firerate"
	ActShield   Action = "shield"
	ActUnbind   Action = "unbind"
)

// Command is one entry of the terminal command bank. Limit caps the
// upgrade level an action can reach; zero means uncapped.
type Command struct {
	Name   string
	Desc   string
	Cost   int
	Req    Requirement
	Limit  int
	Action Action
}

var commandBank = []Command{
	{Name: "sys.scan", Desc: "Reveal Loot", Cost: 50, Action: ActScan},
	{Name: "sys.lumos", Desc: "Upgrade Light", Cost: 50, Action: ActLight},
	{Name: "sys.compile", Desc: "Unlock Weapon", Cost: 50, Req: ReqStory, Action: ActCombat},
	{Name: "sys.cloak", Desc: "Invisibility (10s)", Cost: 20, Req: ReqCombat, Action: ActCloak},
	{Name: "exe.repair", Desc: "Restore 50 HP", Cost: 100, Req: ReqCombat, Action: ActHeal},
	{Name: "sys.speed", Desc: "Boost Velocity", Cost: 80, Req: ReqLight, Limit: 2, Action: ActSpeed},
	{Name: "sys.fire", Desc: "Boost Fire Rate", Cost: 60, Req: ReqCombat, Limit: 3, Action: ActFireRate},
	{Name: "sys.protect", Desc: "Shield Layer", Cost: 120, Req: ReqCombat, Limit: 1, Action: ActShield},
	{Name: "sys.unbind", Desc: "Clear Hotkey", Cost: 0, Action: ActUnbind},
}

// Commands returns the command bank in listing order.
func Commands() []Command {
	out := make([]Command, len(commandBank))
	copy(out, commandBank)
	return out
}

// LookupCommand finds a bank entry by name.
func LookupCommand(name string) (Command, bool) {
	for _, c := range commandBank {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Submit echoes a terminal line and runs it. Blank lines are ignored.
func (w *World) Submit(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	w.print(LineCmd, "> "+line)
	_ = w.ExecuteLine(line)
}

// ExecuteLine runs a utility command (/help, /cls, /bind) or a bank command.
// A rejected line leaves the world unchanged and is reported both as the
// returned error and as a terminal line.
func (w *World) ExecuteLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "/help":
		w.help()
		return nil
	case "/cls":
		w.Terminal = w.Terminal[:0]
		w.print(LineMsg, "SYSTEM: CLEARED")
		return nil
	case "/bind":
		return w.bind(args)
	}
	return w.Execute(name, args...)
}

// Execute runs a bank command. Every precondition is checked before data is
// deducted or any effect applied.
func (w *World) Execute(name string, args ...string) error {
	if w.Player.Dead || w.Won {
		return w.reject(ErrOffline)
	}
	cmd, ok := LookupCommand(name)
	if !ok {
		return w.reject(fmt.Errorf("%w '%s'", ErrUnknownCommand, name))
	}
	if err := w.check(cmd, args); err != nil {
		return w.reject(err)
	}

	w.Player.Data -= cmd.Cost
	w.print(LineOK, fmt.Sprintf("EXEC: %s... OK", cmd.Name))
	w.cue(CueCommandOK)
	w.apply(cmd, args)
	return nil
}

// RunHotbar executes the command bound to slot (1..5). An empty slot does
// nothing.
func (w *World) RunHotbar(slot int) error {
	if slot < 1 || slot > len(w.Hotbar) {
		return w.reject(fmt.Errorf("%w (use 1-%d)", ErrInvalidSlot, len(w.Hotbar)))
	}
	name := w.Hotbar[slot-1]
	if name == "" {
		return nil
	}
	return w.Execute(name)
}

func (w *World) reject(err error) error {
	w.print(LineError, "ERR: "+strings.ToUpper(err.Error()))
	w.cue(CueCommandFail)
	return err
}

func (w *World) reqMet(r Requirement) bool {
	switch r {
	case ReqCombat:
		return w.Player.CombatUnlocked
	case ReqLight:
		return w.Player.LightLevel >= w.Cfg.LightReqLevel
	default:
		return true
	}
}

func (w *World) check(cmd Command, args []string) error {
	p := &w.Player

	if !w.reqMet(cmd.Req) {
		if cmd.Req == ReqLight {
			return fmt.Errorf("%w: light level too low", ErrLocked)
		}
		return fmt.Errorf("%w: combat module not found", ErrLocked)
	}
	if p.Data < cmd.Cost {
		return fmt.Errorf("%w: need %d MB data", ErrInsufficientData, cmd.Cost)
	}

	switch cmd.Action {
	case ActLight:
		if p.LightLevel >= w.Cfg.MaxLightLevel-1e-9 {
			return fmt.Errorf("%w: max light", ErrLimitReached)
		}
	case ActCombat:
		if p.CombatUnlocked {
			return fmt.Errorf("%w: already active", ErrLimitReached)
		}
	case ActSpeed:
		if cmd.Limit > 0 && p.Stats.Level(UpSpeed) >= cmd.Limit {
			return fmt.Errorf("%w: max speed reached", ErrLimitReached)
		}
	case ActFireRate:
		if cmd.Limit > 0 && p.Stats.Level(UpFireRate) >= cmd.Limit {
			return fmt.Errorf("%w: max fire rate reached", ErrLimitReached)
		}
	case ActShield:
		if p.Shield > 0 {
			return fmt.Errorf("%w: shield already active", ErrLimitReached)
		}
	case ActUnbind:
		slot, err := w.boundSlot(args)
		if err != nil {
			return err
		}
		if w.Hotbar[slot-1] == "" {
			return fmt.Errorf("%w: [%d] is not bound", ErrInvalidSlot, slot)
		}
	}
	return nil
}

func (w *World) apply(cmd Command, args []string) {
	p := &w.Player

	switch cmd.Action {
	case ActScan:
		p.ScanActive = true
		p.ScanTimer = w.Cfg.ScanTicks
		w.logf(LineNew, "SCAN COMPLETE")
	case ActLight:
		p.LightLevel = minf(w.Cfg.MaxLightLevel, p.LightLevel+w.Cfg.LightStep)
		w.logf(LineNew, "LIGHT UPGRADED")
	case ActCombat:
		p.CombatUnlocked = true
		w.logf(LineNew, "COMBAT UNLOCKED")
		w.schedule(w.Cfg.CombatEventDelay, "combat.event", w.combatEvent)
	case ActCloak:
		p.Cloaked = true
		p.CloakTimer = w.Cfg.CloakTicks
		w.logf(LineNew, "CLOAK ENGAGED")
	case ActHeal:
		p.Health = clampInt(p.Health+w.Cfg.HealAmount, 0, w.Cfg.PlayerMaxHealth)
		w.logf(LineNew, "HULL REPAIRED")
	case ActSpeed:
		w.applyUpgrade(UpSpeed)
	case ActFireRate:
		w.applyUpgrade(UpFireRate)
	case ActShield:
		p.Shield = w.Cfg.ShieldCharge
		w.logf(LineNew, "SHIELD GENERATED")
	case ActUnbind:
		slot, _ := w.boundSlot(args)
		w.Hotbar[slot-1] = ""
		w.print(LineOK, fmt.Sprintf("UNBOUND KEY [%d]", slot))
	}
}

func (w *World) boundSlot(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w (use 1-%d)", ErrInvalidSlot, len(w.Hotbar))
	}
	slot, err := strconv.Atoi(args[0])
	if err != nil || slot < 1 || slot > len(w.Hotbar) {
		return 0, fmt.Errorf("%w (use 1-%d)", ErrInvalidSlot, len(w.Hotbar))
	}
	return slot, nil
}

func (w *World) bind(args []string) error {
	slot, err := w.boundSlot(args)
	if err != nil {
		return w.reject(err)
	}
	if len(args) < 2 {
		return w.reject(fmt.Errorf("%w: nothing to bind", ErrUnknownCommand))
	}
	name := args[1]
	if _, ok := LookupCommand(name); !ok {
		return w.reject(fmt.Errorf("%w '%s'", ErrUnknownCommand, name))
	}

	w.Hotbar[slot-1] = name
	w.print(LineOK, fmt.Sprintf("SUCCESS: Bound %s to [%d]", name, slot))
	w.cue(CueCommandOK)
	return nil
}

func (w *World) help() {
	w.print(LineMsg, "--- SYSTEM COMMANDS ---")
	for _, c := range commandBank {
		if w.reqMet(c.Req) {
			w.print(LineMsg, fmt.Sprintf("%s [%s] - %d MB", c.Name, c.Desc, c.Cost))
		}
	}
	w.print(LineMsg, "--- UTILITY ---")
	w.print(LineMsg, "/bind [key] [cmd] (Assign to Hotbar)")
	w.print(LineMsg, "/cls (Clear Screen)")
}
