// Package progress carries status events from long running launcher
// operations to whatever frontend is listening (CLI spinner, channel
// consumer). Components emitting progress accept a Sink, they never
// create one themselves.
package progress

// Stages of a launch preparation, roughly in order
const (
	StageResolve   = "resolve"
	StageInstall   = "install"
	StageLibraries = "libraries"
	StageAssets    = "assets"
	StageJava      = "java"
	StageMods      = "mods"
	StageLaunch    = "launch"
)

// Event is a single progress update. Percent is 0–100 over the whole
// preparation, not per stage
type Event struct {
	InstanceID string
	Stage      string
	Percent    int
	Message    string
}

// Sink receives progress events. Implementations must not block for
// long, emitters publish synchronously
type Sink interface {
	Publish(Event)
}

// Func adapts a plain function to a Sink
type Func func(Event)

func (f Func) Publish(e Event) { f(e) }

// Discard drops all events
var Discard Sink = Func(func(Event) {})

// Channel is a Sink backed by a channel. Events are dropped when the
// receiver falls behind, progress is advisory
type Channel chan Event

func (c Channel) Publish(e Event) {
	select {
	case c <- e:
	default:
	}
}
