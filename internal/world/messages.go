package world

import "nullsector/internal/shared/input"

// Msg is a discrete event pushed into the world by the input provider.
// Messages are applied at the start of the next Tick, in arrival order.
type Msg interface{ isMsg() }

// MsgInput replaces the held-key snapshot.
type MsgInput struct{ Input input.State }

// MsgFire shoots a player projectile at Angle (radians, world space).
type MsgFire struct{ Angle float64 }

type MsgToggleMode struct{}

type MsgToggleTerminal struct{}

// MsgExecute runs one terminal line.
type MsgExecute struct{ Line string }

// MsgHotbar runs the command bound to Slot (1..5).
type MsgHotbar struct{ Slot int }

type MsgToggleObjectives struct{}

type MsgTogglePause struct{}

// MsgRestart throws the run away and starts over with the same seed.
type MsgRestart struct{}

func (MsgInput) isMsg()            {}
func (MsgFire) isMsg()             {}
func (MsgToggleMode) isMsg()       {}
func (MsgToggleTerminal) isMsg()   {}
func (MsgExecute) isMsg()          {}
func (MsgHotbar) isMsg()           {}
func (MsgToggleObjectives) isMsg() {}
func (MsgTogglePause) isMsg()      {}
func (MsgRestart) isMsg()          {}
