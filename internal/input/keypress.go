// Package input turns raw key state into gated logical commands. Repeat and
// rate limits are counted in frames, not wall-clock time, so behaviour is
// deterministic under test.
package input

// KeyState tracks where a key is in its press/hold cycle.
type KeyState uint8

const (
	Released KeyState = iota
	Pressed           // first press seen, waiting out the repeat delay
	Held              // repeating
)

// KeyPress rate-limits one key. MinDelay is the minimum number of frames
// between two accepted presses; RepeatDelay is how long a key must stay
// down after its first press before it starts repeating.
type KeyPress struct {
	MinDelay    uint64
	RepeatDelay uint64
	State       KeyState

	lastPress uint64
	everFired bool
}

func NewKeyPress(minDelay, repeatDelay uint64) *KeyPress {
	return &KeyPress{MinDelay: minDelay, RepeatDelay: repeatDelay}
}

// TryPress reports whether the key fires on frame, given whether it is down.
func (k *KeyPress) TryPress(down bool, frame uint64) bool {
	if !down {
		k.State = Released
		return false
	}
	if k.everFired {
		elapsed := frame - k.lastPress
		if k.State == Pressed {
			if elapsed < k.RepeatDelay {
				return false
			}
			k.State = Held
		}
		if elapsed < k.MinDelay {
			return false
		}
	}
	k.lastPress = frame
	k.everFired = true
	if k.State == Released {
		k.State = Pressed
	}
	return true
}

// Gate applies a KeyPress per key name across frames.
type Gate struct {
	minDelay    uint64
	repeatDelay uint64
	frame       uint64
	keys        map[string]*KeyPress
}

func NewGate(minDelay, repeatDelay uint64) *Gate {
	return &Gate{
		minDelay:    minDelay,
		repeatDelay: repeatDelay,
		keys:        make(map[string]*KeyPress),
	}
}

// Frame advances one frame. down lists the keys seen this frame; the result
// holds those allowed to fire, in the same order.
func (g *Gate) Frame(down []string) []string {
	g.frame++
	seen := make(map[string]bool, len(down))
	var fired []string
	for _, name := range down {
		if seen[name] {
			continue
		}
		seen[name] = true
		kp, ok := g.keys[name]
		if !ok {
			kp = NewKeyPress(g.minDelay, g.repeatDelay)
			g.keys[name] = kp
		}
		if kp.TryPress(true, g.frame) {
			fired = append(fired, name)
		}
	}
	for name, kp := range g.keys {
		if !seen[name] {
			kp.TryPress(false, g.frame)
		}
	}
	return fired
}

// Frames returns how many frames have elapsed.
func (g *Gate) Frames() uint64 { return g.frame }
