package syntax

// builder assembles a GreenTree bottom-up as the parser descends: each
// StartNode pushes a fresh child list, each Token appends a leaf to the
// innermost open list, and FinishNode pops the list into a GreenNode
// appended to its parent's list.
type builder struct {
	stack [][]GreenElement
}

func newBuilder() *builder {
	b := &builder{}
	b.stack = append(b.stack, nil) // implicit root frame
	return b
}

func (b *builder) StartNode() {
	b.stack = append(b.stack, nil)
}

func (b *builder) FinishNode(kind SyntaxKind) {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	node := NewGreenNode(kind, top)
	last := len(b.stack) - 1
	b.stack[last] = append(b.stack[last], node)
}

func (b *builder) Token(kind SyntaxKind, text string) {
	last := len(b.stack) - 1
	b.stack[last] = append(b.stack[last], NewGreenToken(kind, text))
}

// Checkpoint marks a position in the innermost open list that
// StartNodeAt can later wrap: the index one past whatever has already
// been appended there. Grounded on rowan's GreenNodeBuilder::checkpoint,
// the mechanism a bottom-up green-tree builder needs to retroactively
// turn an already-parsed left operand into a new parent node's first
// child (postfix chains, binary expressions, assignment, ternary).
type Checkpoint struct {
	depth int
	index int
}

func (b *builder) Checkpoint() Checkpoint {
	last := len(b.stack) - 1
	return Checkpoint{depth: last, index: len(b.stack[last])}
}

// StartNodeAt opens a new node whose first children are everything
// appended to the checkpoint's list since the checkpoint was taken,
// wrapping them in place rather than appending after them. The
// checkpoint must belong to the currently-innermost list (callers never
// hold one across an intervening unmatched StartNode).
func (b *builder) StartNodeAt(cp Checkpoint) {
	last := len(b.stack) - 1
	if cp.depth != last {
		panic("syntax: StartNodeAt checkpoint does not belong to the innermost frame")
	}
	tail := append([]GreenElement(nil), b.stack[last][cp.index:]...)
	b.stack[last] = b.stack[last][:cp.index]
	b.stack = append(b.stack, tail)
}

// Finish must be called exactly once all nodes have been closed; it
// returns the single root element accumulated in the implicit root frame.
func (b *builder) Finish() GreenElement {
	if len(b.stack) != 1 {
		panic("syntax: builder.Finish called with unbalanced StartNode/FinishNode")
	}
	root := b.stack[0]
	if len(root) != 1 {
		panic("syntax: builder produced more than one root element")
	}
	return root[0]
}
