package game

import (
	"dungeoncrawl/internal/input"

	"github.com/gdamore/tcell/v2"
)

// Key names used by the session. Printable keys are named by their rune.
const (
	keyUp    = "up"
	keyDown  = "down"
	keyLeft  = "left"
	keyRight = "right"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// keyName reduces a tcell key event to the name the input gate tracks.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return keyUp
	case tcell.KeyDown:
		return keyDown
	case tcell.KeyLeft:
		return keyLeft
	case tcell.KeyRight:
		return keyRight
	case tcell.KeyEnter:
		return keyEnter
	case tcell.KeyEscape:
		return keyEsc
	case tcell.KeyRune:
		return string(ev.Rune())
	}
	return ""
}

// direction maps movement keys to a step.
func direction(key string) (dx, dy int, ok bool) {
	switch key {
	case keyUp, "k", "8":
		return 0, -1, true
	case keyDown, "j", "2":
		return 0, 1, true
	case keyRight, "l", "6":
		return 1, 0, true
	case keyLeft, "h", "4":
		return -1, 0, true
	case "y", "7":
		return -1, -1, true
	case "u", "9":
		return 1, -1, true
	case "b", "1":
		return -1, 1, true
	case "n", "3":
		return 1, 1, true
	}
	return 0, 0, false
}

// menuCommand maps a key on the main menu.
func menuCommand(key string) input.Command {
	switch key {
	case keyUp, "k":
		return input.Command{Kind: input.MenuUp}
	case keyDown, "j":
		return input.Command{Kind: input.MenuDown}
	case keyEnter:
		return input.Command{Kind: input.MenuConfirm}
	case "q", keyEsc:
		return input.Command{Kind: input.Quit}
	}
	return input.Command{}
}

// itemSlot maps a letter key to a backpack index.
func itemSlot(key string) (int, bool) {
	if len(key) != 1 || key[0] < 'a' || key[0] > 'z' {
		return 0, false
	}
	return int(key[0] - 'a'), true
}
