package domain

import (
	"errors"
	"fmt"

	"go.trai.ch/zerr"
)

// Graph errors are never retried; the caller has to fix the graph and resubmit it.
var (
	// ErrCyclicGraph is returned when the evaluated subgraph contains a link cycle.
	ErrCyclicGraph = zerr.New("cyclic graph")

	// ErrUnsupportedType is returned when a socket type has no shader representation.
	ErrUnsupportedType = zerr.New("unsupported socket type")

	// ErrUnknownNodeKind is returned when no code generator is registered for a node kind.
	ErrUnknownNodeKind = zerr.New("unknown node kind")

	// ErrNodeAlreadyExists is returned when adding a node whose name is already taken.
	ErrNodeAlreadyExists = zerr.New("node already exists")

	// ErrMissingNode is returned when a link or the output refers to an unknown node.
	ErrMissingNode = zerr.New("missing node")

	// ErrMissingSocket is returned when a link or a node kind refers to an unknown socket.
	ErrMissingSocket = zerr.New("missing socket")

	// ErrSocketTypeMismatch is returned when linked sockets disagree on their type.
	ErrSocketTypeMismatch = zerr.New("socket type mismatch")

	// ErrInputAlreadyLinked is returned when an input socket receives a second link.
	ErrInputAlreadyLinked = zerr.New("input socket already linked")

	// ErrInvalidParam is returned when a node carries a custom parameter its kind does not accept.
	ErrInvalidParam = zerr.New("invalid node parameter")

	// ErrEmptyGraph is returned when generating code for a graph without nodes.
	ErrEmptyGraph = zerr.New("graph has no nodes")

	// ErrKindUnavailable is returned when a node kind cannot run in the engine being generated for.
	ErrKindUnavailable = zerr.New("node kind not available for engine")
)

var (
	// ErrDuplicateBinding is returned when two resources share a slot within one frequency.
	ErrDuplicateBinding = zerr.New("duplicate resource binding")

	// ErrCompileFailed is returned by shader compilers when the generated source is rejected.
	ErrCompileFailed = zerr.New("shader compilation failed")

	// ErrUnsupportedTarget is returned when a compiler is configured for an unknown output format.
	ErrUnsupportedTarget = zerr.New("unsupported shader target")

	// ErrUnknownEngine is returned when no finalizer exists for an engine tag.
	ErrUnknownEngine = zerr.New("unknown engine")

	// ErrLifecycle marks use of the pass cache outside its init/exit window.
	// It is a programming error and surfaces as a panic.
	ErrLifecycle = zerr.New("pass cache used outside of its lifetime")

	// ErrCompileInFlight marks a compile request issued while another one is pending.
	ErrCompileInFlight = zerr.New("compilation already in flight")

	// ErrPassReleased marks use of a pass that has been destroyed.
	ErrPassReleased = zerr.New("pass already released")

	// ErrNoCustomCompilation marks FinalizeCompilation without a matching BeginCompilation.
	ErrNoCustomCompilation = zerr.New("no custom compilation to finalize")

	// ErrConfigReadFailed is returned when a config or material file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a config or material file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrStoreWriteFailed is returned when the source dump cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write generated source")

	// ErrStoreReadFailed is returned when a dumped source cannot be read back.
	ErrStoreReadFailed = zerr.New("failed to read generated source")
)

var graphErrors = []error{
	ErrCyclicGraph,
	ErrUnsupportedType,
	ErrUnknownNodeKind,
	ErrNodeAlreadyExists,
	ErrMissingNode,
	ErrMissingSocket,
	ErrSocketTypeMismatch,
	ErrInputAlreadyLinked,
	ErrInvalidParam,
	ErrEmptyGraph,
	ErrKindUnavailable,
}

// IsGraphError reports whether err was caused by a malformed node graph.
func IsGraphError(err error) bool {
	for _, target := range graphErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Wrap classifies cause under the sentinel kind. errors.Is matches both and
// the message reads "kind: cause".
func Wrap(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
