package graph

import (
	"github.com/ihavespoons/shear/internal/parser"
)

// DefaultMaxDepth bounds dependency tree recursion when the caller does not
// specify a depth.
const DefaultMaxDepth = 3

// Node is one entry in a dependency tree. Circular marks a call back to a
// method currently on the recursion stack; Found is false when the callee
// could not be resolved in the class's method index. Either condition
// terminates recursion at that node.
type Node struct {
	ClassName  string  `json:"class_name"`
	MethodName string  `json:"method_name"`
	Found      bool    `json:"found"`
	Circular   bool    `json:"circular"`
	LineCount  int     `json:"line_count,omitempty"`
	Children   []*Node `json:"children,omitempty"`
}

// Builder builds dependency trees over one class's parsed method set. Only
// own-class calls are resolved; qualified calls keep their qualifier as the
// class name but resolve by bare name heuristically.
type Builder struct {
	className string
	methods   *parser.MethodSet
}

// NewBuilder creates a dependency tree builder for the given class.
func NewBuilder(className string, methods *parser.MethodSet) *Builder {
	return &Builder{className: className, methods: methods}
}

// Build returns the dependency tree rooted at startMethod, recursing at most
// maxDepth levels. Cycles are detected with an active recursion stack, not a
// global visited set, so independent branches revisiting a method are not
// falsely pruned. The root itself is never marked circular.
func (b *Builder) Build(startMethod string, maxDepth int) *Node {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	active := make(map[string]bool)
	return b.buildNode(b.className, startMethod, 0, maxDepth, active)
}

func (b *Builder) buildNode(className, methodName string, depth, maxDepth int, active map[string]bool) *Node {
	if depth >= maxDepth {
		return nil
	}

	key := className + "." + methodName
	if active[key] {
		return &Node{
			ClassName:  className,
			MethodName: methodName,
			Found:      true,
			Circular:   true,
		}
	}

	node := &Node{ClassName: className, MethodName: methodName}

	overloads := b.methods.ByName[methodName]
	if len(overloads) == 0 || (className != b.className && className != "this") {
		// Cross-class calls cannot be resolved without type information.
		node.Found = false
		return node
	}

	node.Found = true
	method := overloads[0]
	node.LineCount = method.LineCount

	active[key] = true
	for _, call := range parser.ParseMethodCalls(method.FullText) {
		callClass := call.Qualifier
		if callClass == "this" {
			callClass = b.className
		}
		child := b.buildNode(callClass, call.Name, depth+1, maxDepth, active)
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	delete(active, key)

	return node
}
