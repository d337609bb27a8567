package rules

import (
	"log/slog"
	"strings"

	"github.com/FocuswithJustin/richtext/core/dom"
)

// Context is handed to every hook of one conversion. It is created per
// conversion and must not be retained by rules.
type Context struct {
	// Direction is ToData or ToView.
	Direction Direction
	// Src is the tree being converted. Prepare hooks receive its nodes.
	Src *dom.Tree
	// Out is the tree being built. Import hooks receive its nodes.
	Out *dom.Tree
	// Report collects the losses of this conversion.
	Report *LossReport
	// Logger is the engine logger.
	Logger *slog.Logger

	path []string
}

// NewContext returns a context converting src into a fresh output tree.
func NewContext(dir Direction, src *dom.Tree, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	return &Context{
		Direction: dir,
		Src:       src,
		Out:       dom.New(),
		Report:    NewLossReport(dir),
		Logger:    logger,
	}
}

// Enter pushes a path segment for the element being converted.
func (c *Context) Enter(segment string) {
	c.path = append(c.path, segment)
}

// Leave pops the last path segment.
func (c *Context) Leave() {
	if len(c.path) > 0 {
		c.path = c.path[:len(c.path)-1]
	}
}

// Path returns the source location of the element being converted, such
// as "/table[1]/tbody[2]".
func (c *Context) Path() string {
	if len(c.path) == 0 {
		return "/"
	}
	return "/" + strings.Join(c.path, "/")
}

// Lose records a lost element at the current path.
func (c *Context) Lose(class LossClass, elementType, reason string) {
	c.Report.AddLostElement(class, c.Path(), elementType, reason)
	c.Logger.Debug("markup lost",
		"direction", c.Direction.String(),
		"path", c.Path(),
		"element", elementType,
		"loss_class", string(class),
		"reason", reason,
	)
}

// Fragment returns a new empty fragment in the output tree. Returning it
// from an import hook deletes the node and keeps its children.
func (c *Context) Fragment() dom.NodeID {
	return c.Out.CreateFragment()
}
