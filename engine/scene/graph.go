package scene

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/spaghettifunk/keyframer/engine/math"
)

var (
	ErrInvalidNode  = errors.New("invalid scene node")
	ErrNoTransform  = errors.New("scene node does not carry a transform")
	ErrSealed       = errors.New("transform node order is sealed")
	ErrNotFound     = errors.New("scene node not found")
	ErrFrameLength  = errors.New("frame length does not match the number of transform nodes")
	ErrDuplicateKey = errors.New("scene node name already in use")
)

// Node is a handle into the graph arena.
type Node int

// Nil is the handle of no node.
const Nil Node = -1

type NodeKind uint8

const (
	NODE_KIND_ROOT NodeKind = iota
	NODE_KIND_TRANSFORM
	NODE_KIND_SHAPE
)

func (k NodeKind) String() string {
	switch k {
	case NODE_KIND_ROOT:
		return "root"
	case NODE_KIND_TRANSFORM:
		return "transform"
	case NODE_KIND_SHAPE:
		return "shape"
	}
	return "unknown"
}

/**
 * @brief Geometry attached to a transform node. The shape's own affine
 * matrix (offset and scale) is applied on top of the accumulated transform.
 */
type Shape struct {
	Geometry string
	Color    math.Vec3
	Offset   math.RigidBodyTransform
	Scale    math.Vec3
}

// Matrix returns the shape's affine matrix: offset * scale.
func (s Shape) Matrix() math.Mat4 {
	return s.Offset.ToMat4().Mul(math.NewMat4Scale(s.Scale))
}

type node struct {
	name     string
	kind     NodeKind
	parent   Node
	children []Node
	rbt      math.RigidBodyTransform
	shape    Shape
}

/**
 * @brief A scene graph stored as an arena of nodes addressed by integer
 * handles. The root is always handle 0 and carries the identity transform.
 * Transform nodes are the only nodes whose RBT can be read back into a frame
 * or written from one.
 */
type Graph struct {
	mu     sync.RWMutex
	nodes  []node
	names  map[string]Node
	order  []Node
	sealed bool
}

// NewGraph creates a graph holding only the root node.
func NewGraph(rootName string) *Graph {
	g := &Graph{names: make(map[string]Node)}
	g.nodes = append(g.nodes, node{
		name:   rootName,
		kind:   NODE_KIND_ROOT,
		parent: Nil,
		rbt:    math.RBTCreate(),
	})
	g.names[rootName] = 0
	return g
}

func (g *Graph) Root() Node {
	return 0
}

func (g *Graph) valid(n Node) bool {
	return n >= 0 && int(n) < len(g.nodes)
}

func (g *Graph) add(parent Node, nd node) (Node, error) {
	if !g.valid(parent) || g.nodes[parent].kind == NODE_KIND_SHAPE {
		return Nil, errors.Wrapf(ErrInvalidNode, "parent %d", parent)
	}
	if _, ok := g.names[nd.name]; ok {
		return Nil, errors.Wrapf(ErrDuplicateKey, "%q", nd.name)
	}
	nd.parent = parent
	n := Node(len(g.nodes))
	g.nodes = append(g.nodes, nd)
	g.nodes[parent].children = append(g.nodes[parent].children, n)
	g.names[nd.name] = n
	return n, nil
}

/**
 * @brief Adds a transform node under parent. Fails with ErrSealed once the
 * transform order has been handed out by TransformNodes.
 */
func (g *Graph) AddTransform(parent Node, name string, rbt math.RigidBodyTransform) (Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sealed {
		return Nil, errors.Wrapf(ErrSealed, "adding %q", name)
	}
	return g.add(parent, node{name: name, kind: NODE_KIND_TRANSFORM, rbt: rbt})
}

// AddShape attaches a shape under parent. A zero Offset stands for the identity.
func (g *Graph) AddShape(parent Node, name string, shape Shape) (Node, error) {
	if shape.Offset == (math.RigidBodyTransform{}) {
		shape.Offset = math.RBTCreate()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.add(parent, node{name: name, kind: NODE_KIND_SHAPE, shape: shape})
}

func (g *Graph) Find(name string) (Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.names[name]
	if !ok {
		return Nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return n, nil
}

func (g *Graph) Name(n Node) string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.valid(n) {
		return fmt.Sprintf("<invalid %d>", n)
	}
	return g.nodes[n].name
}

func (g *Graph) Kind(n Node) (NodeKind, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.valid(n) {
		return 0, errors.Wrapf(ErrInvalidNode, "node %d", n)
	}
	return g.nodes[n].kind, nil
}

func (g *Graph) Parent(n Node) Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.valid(n) {
		return Nil
	}
	return g.nodes[n].parent
}

// Rbt returns the parent-relative transform of n. The root reports the identity.
func (g *Graph) Rbt(n Node) (math.RigidBodyTransform, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.valid(n) {
		return math.RBTCreate(), errors.Wrapf(ErrInvalidNode, "node %d", n)
	}
	if g.nodes[n].kind == NODE_KIND_SHAPE {
		return math.RBTCreate(), errors.Wrapf(ErrNoTransform, "%q", g.nodes[n].name)
	}
	return g.nodes[n].rbt, nil
}

// SetRbt overwrites the parent-relative transform of a transform node.
func (g *Graph) SetRbt(n Node, rbt math.RigidBodyTransform) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.valid(n) {
		return errors.Wrapf(ErrInvalidNode, "node %d", n)
	}
	if g.nodes[n].kind != NODE_KIND_TRANSFORM {
		return errors.Wrapf(ErrNoTransform, "%q", g.nodes[n].name)
	}
	g.nodes[n].rbt = rbt
	return nil
}

/**
 * @brief Returns the transform accumulated along the path from the root to
 * target, leaving out the last offset levels. Offset 0 yields the world
 * transform of target, offset 1 the world transform of its parent.
 *
 * The path is found with an explicit depth-first search from the root; the
 * partial accumulation of branches that do not contain target is discarded.
 */
func (g *Graph) PathAccumRbt(target Node, offset int) (math.RigidBodyTransform, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.valid(target) {
		return math.RBTCreate(), errors.Wrapf(ErrInvalidNode, "node %d", target)
	}

	type entry struct {
		node  Node
		depth int
	}
	path := make([]Node, 0, 8)
	stack := []entry{{node: g.Root(), depth: 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		path = append(path[:top.depth], top.node)
		if top.node == target {
			return g.accumulate(path, offset), nil
		}
		children := g.nodes[top.node].children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, entry{node: children[i], depth: top.depth + 1})
		}
	}
	return math.RBTCreate(), errors.Wrapf(ErrNotFound, "node %d is not reachable from the root", target)
}

func (g *Graph) accumulate(path []Node, offset int) math.RigidBodyTransform {
	end := len(path) - offset
	if end < 0 {
		end = 0
	}
	acc := math.RBTCreate()
	for _, n := range path[:end] {
		if g.nodes[n].kind != NODE_KIND_SHAPE {
			acc = acc.Mul(g.nodes[n].rbt)
		}
	}
	return acc
}

/**
 * @brief Returns the transform nodes in depth-first order. The order is
 * computed once and sealed: later calls return the same order and no
 * transform node can be added afterwards, so index i of every frame always
 * refers to the same node.
 */
func (g *Graph) TransformNodes() []Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.sealed {
		g.order = g.order[:0]
		stack := []Node{g.Root()}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if g.nodes[n].kind == NODE_KIND_TRANSFORM {
				g.order = append(g.order, n)
			}
			children := g.nodes[n].children
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
		g.sealed = true
	}
	return append([]Node(nil), g.order...)
}

// DumpFrame reads the current transform of every transform node, in
// TransformNodes order.
func (g *Graph) DumpFrame() []math.RigidBodyTransform {
	order := g.TransformNodes()

	g.mu.RLock()
	defer g.mu.RUnlock()

	frame := make([]math.RigidBodyTransform, len(order))
	for i, n := range order {
		frame[i] = g.nodes[n].rbt
	}
	return frame
}

// SetFrame writes frame into the transform nodes, in TransformNodes order.
func (g *Graph) SetFrame(frame []math.RigidBodyTransform) error {
	order := g.TransformNodes()

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(frame) != len(order) {
		return errors.Wrapf(ErrFrameLength, "got %d transforms, scene has %d", len(frame), len(order))
	}
	for i, n := range order {
		g.nodes[n].rbt = frame[i]
	}
	return nil
}

// DrawItem is what the rendering boundary needs to draw one shape.
type DrawItem struct {
	Name     string
	Geometry string
	Color    math.Vec3
	Model    math.Mat4
}

// DrawList walks the graph and returns the world model matrix of every shape.
func (g *Graph) DrawList() []DrawItem {
	g.mu.RLock()
	defer g.mu.RUnlock()

	type entry struct {
		node  Node
		world math.RigidBodyTransform
	}
	var items []DrawItem
	stack := []entry{{node: g.Root(), world: g.nodes[0].rbt}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nd := g.nodes[top.node]
		if nd.kind == NODE_KIND_SHAPE {
			items = append(items, DrawItem{
				Name:     nd.name,
				Geometry: nd.shape.Geometry,
				Color:    nd.shape.Color,
				Model:    top.world.ToMat4().Mul(nd.shape.Matrix()),
			})
			continue
		}
		for i := len(nd.children) - 1; i >= 0; i-- {
			child := nd.children[i]
			world := top.world
			if g.nodes[child].kind == NODE_KIND_TRANSFORM {
				world = world.Mul(g.nodes[child].rbt)
			}
			stack = append(stack, entry{node: child, world: world})
		}
	}
	return items
}
