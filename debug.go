package folio

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// globalDebug mirrors the most recently set Canvas debug flag so that node
// operations (which lack a Canvas pointer) can check it cheaply. Only valid
// with a single Canvas; multiple Canvases with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// debugLogger receives tree warnings while globalDebug is set.
var debugLogger = discardLogger()

// discardLogger returns a logger that drops everything.
func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// layoutStats holds timing and counts of one Canvas.Relayout pass.
// Only logged when the canvas is in debug mode.
type layoutStats struct {
	elapsed  time.Duration
	measured int
	cacheHit int
	failed   int
	nodes    int
}

// debugLog reports relayout stats on the canvas logger at debug level.
func (c *Canvas) debugLog(stats layoutStats) {
	if !c.debug {
		return
	}
	c.logger.Debug("relayout",
		"nodes", stats.nodes,
		"measured", stats.measured,
		"cache_hits", stats.cacheHit,
		"failed", stats.failed,
		"elapsed", stats.elapsed)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("folio debug: %s on disposed node %q", op, n.Name))
	}
}

// debugMaxTreeDepth is the depth past which a warning is logged.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("tree depth exceeds limit", "node", n.Name, "depth", depth, "limit", debugMaxTreeDepth)
	}
}

// debugMaxChildCount is the child count past which a warning is logged.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.Warn("node has many children", "node", n.Name, "children", len(n.children), "limit", debugMaxChildCount)
	}
}
