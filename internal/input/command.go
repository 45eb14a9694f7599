package input

import (
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
)

// Kind names a logical player or menu command.
type Kind uint8

const (
	None Kind = iota
	Move
	Wait
	Pickup
	Use
	Drop
	Save
	MenuUp
	MenuDown
	MenuConfirm
	Quit
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Move:
		return "move"
	case Wait:
		return "wait"
	case Pickup:
		return "pickup"
	case Use:
		return "use"
	case Drop:
		return "drop"
	case Save:
		return "save"
	case MenuUp:
		return "menu_up"
	case MenuDown:
		return "menu_down"
	case MenuConfirm:
		return "menu_confirm"
	case Quit:
		return "quit"
	}
	return "unknown"
}

// Command is the one logical input produced per frame.
type Command struct {
	Kind   Kind
	DX, DY int
	Item   ecs.Entity
	Target *gamemap.Point
}

// Advances reports whether the command, if accepted, spends a turn.
func (c Command) Advances() bool {
	switch c.Kind {
	case Move, Wait, Pickup, Use, Drop:
		return true
	}
	return false
}
