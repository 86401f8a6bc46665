package reconcile

// GateState is the composition state of the input method.
type GateState uint8

const (
	GateIdle GateState = iota
	GateComposing
)

// String returns the lowercase state name.
func (s GateState) String() string {
	if s == GateComposing {
		return "composing"
	}
	return "idle"
}

// Gate holds back raw buffer changes while a composition is in progress
// and releases a single consolidated buffer when it ends.
type Gate struct {
	state   GateState
	pending string
}

// Begin enters the composing state. Calling it twice is harmless.
func (g *Gate) Begin() {
	g.state = GateComposing
}

// Update offers a raw buffer change. It returns true when the change should
// be reconciled right away, false when it was swallowed by a composition.
func (g *Gate) Update(buf string) bool {
	if g.state == GateComposing {
		g.pending = buf
		return false
	}
	return true
}

// End leaves the composing state and returns the buffer to reconcile.
// An End without a matching Begin still releases buf.
func (g *Gate) End(buf string) string {
	g.state = GateIdle
	g.pending = ""
	return buf
}

// Pending returns the latest provisional buffer seen while composing.
func (g *Gate) Pending() string {
	return g.pending
}

// State returns the current gate state.
func (g *Gate) State() GateState { return g.state }

// Composing reports whether a composition is open.
func (g *Gate) Composing() bool { return g.state == GateComposing }

// Reset drops any composition in progress.
func (g *Gate) Reset() {
	g.state = GateIdle
	g.pending = ""
}
