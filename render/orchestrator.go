package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/arcade-drive/asset"
	"github.com/lixenwraith/arcade-drive/engine"
	"github.com/lixenwraith/arcade-drive/input"
	"github.com/lixenwraith/arcade-drive/parameter"
)

// RenderPriority determines render order. Lower values render first
type RenderPriority int

const (
	PriorityGround RenderPriority = iota
	PriorityScenery
	PriorityProps
	PriorityVehicle
	PriorityUI
)

// Context is the per-frame state handed to renderers, passed by value
type Context struct {
	Game     *engine.Game
	View     View
	Progress asset.Progress
	Buttons  []input.Button
	Held     input.Snapshot
	Muted    bool
	Status   string

	ScreenWidth  int
	ScreenHeight int
}

// Renderer draws one layer
type Renderer interface {
	Render(ctx Context, buf *RenderBuffer)
}

type rendererEntry struct {
	renderer Renderer
	priority RenderPriority
	index    int
}

// Orchestrator coordinates the render pipeline
type Orchestrator struct {
	screen    tcell.Screen
	buffer    *RenderBuffer
	renderers []rendererEntry
	regCount  int
	scale     float64
}

// NewOrchestrator creates an orchestrator with the default layers registered
func NewOrchestrator(screen tcell.Screen) *Orchestrator {
	w, h := screen.Size()
	o := &Orchestrator{
		screen:    screen,
		buffer:    NewRenderBuffer(w, h),
		renderers: make([]rendererEntry, 0, 8),
		scale:     parameter.ViewCellsPerMeter,
	}
	o.Register(GroundRenderer{Spacing: parameter.ViewGridSpacing}, PriorityGround)
	o.Register(SceneRenderer{}, PriorityScenery)
	o.Register(HUDRenderer{}, PriorityUI)
	return o
}

// Register adds a renderer at the specified priority. Maintains sorted order via insertion sort
func (o *Orchestrator) Register(r Renderer, priority RenderPriority) {
	entry := rendererEntry{
		renderer: r,
		priority: priority,
		index:    o.regCount,
	}
	o.regCount++

	pos := len(o.renderers)
	for i, e := range o.renderers {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}

	o.renderers = append(o.renderers, rendererEntry{})
	copy(o.renderers[pos+1:], o.renderers[pos:])
	o.renderers[pos] = entry
}

// Resize updates buffer dimensions and syncs the screen
func (o *Orchestrator) Resize(width, height int) {
	o.buffer.Resize(width, height)
	o.screen.Sync()
}

// SetScale changes the view zoom in columns per meter
func (o *Orchestrator) SetScale(scale float64) {
	if scale > 0 {
		o.scale = scale
	}
}

// View returns the projection for the current camera pose and buffer size
// The top HUD rows and the bottom button row are excluded
func (o *Orchestrator) View(g *engine.Game) View {
	w, h := o.buffer.Bounds()
	top := parameter.HUDRows
	return NewView(g.CameraPose(), o.scale, 0, top, w, max(h-top-1, 0))
}

// Frame builds the per-frame context
func (o *Orchestrator) Frame(g *engine.Game) Context {
	w, h := o.buffer.Bounds()
	return Context{
		Game:         g,
		View:         o.View(g),
		Progress:     g.Assets.Progress(),
		Held:         g.Held(),
		ScreenWidth:  w,
		ScreenHeight: h,
	}
}

// RenderFrame executes the render pipeline: clear, render all, flush, show
func (o *Orchestrator) RenderFrame(ctx Context) {
	o.buffer.Clear()
	for _, entry := range o.renderers {
		entry.renderer.Render(ctx, o.buffer)
	}
	o.buffer.FlushToScreen(o.screen)
}

// Buffer exposes the composited frame
func (o *Orchestrator) Buffer() *RenderBuffer {
	return o.buffer
}
