package scene

import (
	"time"

	"github.com/matzehuels/blocktower/pkg/grid"
)

// View is the scene's handle on one visible transaction.
type View struct {
	Tx          Tx
	Grid        grid.Square
	Screen      Rect
	Initialised bool

	order int
	dirty bool
}

// ID returns the transaction id.
func (v *View) ID() string { return v.Tx.ID }

// CommandKind identifies what a renderer should do with a Command.
type CommandKind int

const (
	// Teleport places the sprite at To immediately.
	Teleport CommandKind = iota
	// Move animates the sprite from wherever it is to To.
	Move
	// Exit animates the sprite to To and then releases it.
	Exit
	// Destroy releases the sprite immediately.
	Destroy
)

func (k CommandKind) String() string {
	switch k {
	case Teleport:
		return "teleport"
	case Move:
		return "move"
	case Exit:
		return "exit"
	case Destroy:
		return "destroy"
	}
	return "unknown"
}

// Command asks the renderer to change one transaction's sprite. The
// animation starts at Start+Delay and lasts Duration.
type Command struct {
	Kind     CommandKind
	ID       string
	Tx       Tx
	To       Rect
	Start    time.Time
	Duration time.Duration
	Delay    time.Duration
}

// End returns when the animation finishes.
func (c Command) End() time.Time { return c.Start.Add(c.Delay + c.Duration) }

// Renderer receives commands from a scene. Apply must not block and must not
// call back into the scene.
type Renderer interface {
	Apply(Command)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Command)

// Apply calls f(c).
func (f RendererFunc) Apply(c Command) { f(c) }

// Discard is a Renderer that drops every command.
var Discard Renderer = RendererFunc(func(Command) {})

// Recorder is a Renderer that keeps every command it receives.
type Recorder struct {
	Commands []Command
}

// Apply appends c.
func (r *Recorder) Apply(c Command) { r.Commands = append(r.Commands, c) }

// For returns the commands addressed to id, oldest first.
func (r *Recorder) For(id string) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.ID == id {
			out = append(out, c)
		}
	}
	return out
}

// Reset drops the recorded commands.
func (r *Recorder) Reset() { r.Commands = nil }
