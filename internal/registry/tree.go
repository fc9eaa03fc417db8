package registry

import (
	"fmt"

	"github.com/smartcad/cadlink/internal/cad"
)

type color bool

const (
	black, red color = true, false
)

// handleTree red-black tree ordered by handle, not safe for concurrent writes
type handleTree struct {
	root *node
	size int
}

type node struct {
	handle cad.Handle
	obj    cad.Object
	color  color
	left   *node
	right  *node
	parent *node
}

// put inserts or replaces, the previous object is returned on replace
func (t *handleTree) put(h cad.Handle, obj cad.Object) (cad.Object, bool) {
	if t.root == nil {
		t.root = &node{handle: h, obj: obj, color: black}
		t.size++
		return nil, false
	}

	cur := t.root
	for {
		switch {
		case h == cur.handle:
			old := cur.obj
			cur.obj = obj
			return old, true
		case h < cur.handle:
			if cur.left == nil {
				cur.left = &node{handle: h, obj: obj, color: red, parent: cur}
				t.insertCase1(cur.left)
				t.size++
				return nil, false
			}
			cur = cur.left
		default:
			if cur.right == nil {
				cur.right = &node{handle: h, obj: obj, color: red, parent: cur}
				t.insertCase1(cur.right)
				t.size++
				return nil, false
			}
			cur = cur.right
		}
	}
}

func (t *handleTree) get(h cad.Handle) *node {
	cur := t.root
	for cur != nil {
		switch {
		case h == cur.handle:
			return cur
		case h < cur.handle:
			cur = cur.left
		default:
			cur = cur.right
		}
	}
	return nil
}

// leftmost minimal node or nil
func (t *handleTree) leftmost() *node {
	var parent *node
	for cur := t.root; cur != nil; cur = cur.left {
		parent = cur
	}
	return parent
}

// rightmost max node or nil
func (t *handleTree) rightmost() *node {
	var parent *node
	for cur := t.root; cur != nil; cur = cur.right {
		parent = cur
	}
	return parent
}

// String implements Stringer interface
func (t *handleTree) String() string {
	str := "HandleTree\n"
	if t.size > 0 {
		output(t.root, "", true, &str)
	}
	return str
}

func (n *node) String() string {
	return fmt.Sprintf("%s:%s", n.handle, n.obj.ObjectName())
}

func output(n *node, prefix string, isTail bool, str *string) {
	if n.right != nil {
		newPrefix := prefix
		if isTail {
			newPrefix += "│   "
		} else {
			newPrefix += "    "
		}
		output(n.right, newPrefix, false, str)
	}

	*str += prefix
	if isTail {
		*str += "└── "
	} else {
		*str += "┌── "
	}

	*str += n.String() + "\n"
	if n.left != nil {
		newPrefix := prefix
		if isTail {
			newPrefix += "    "
		} else {
			newPrefix += "│   "
		}
		output(n.left, newPrefix, true, str)
	}
}

func (n *node) grandparent() *node {
	if n != nil && n.parent != nil {
		return n.parent.parent
	}
	return nil
}

func (n *node) uncle() *node {
	if n == nil || n.parent == nil || n.parent.parent == nil {
		return nil
	}
	return n.parent.sibling()
}

func (n *node) sibling() *node {
	if n == nil || n.parent == nil {
		return nil
	}
	if n == n.parent.left {
		return n.parent.right
	}
	return n.parent.left
}

func (t *handleTree) rotateLeft(n *node) {
	right := n.right
	t.replace(n, right)
	n.right = right.left
	if right.left != nil {
		right.left.parent = n
	}
	right.left = n
	n.parent = right
}

func (t *handleTree) rotateRight(n *node) {
	left := n.left
	t.replace(n, left)
	n.left = left.right
	if left.right != nil {
		left.right.parent = n
	}
	left.right = n
	n.parent = left
}

func (t *handleTree) replace(old *node, new *node) {
	if old.parent == nil {
		t.root = new
	} else if old == old.parent.left {
		old.parent.left = new
	} else {
		old.parent.right = new
	}
	if new != nil {
		new.parent = old.parent
	}
}

func (t *handleTree) insertCase1(n *node) {
	if n.parent == nil {
		n.color = black
		return
	}
	if colorOf(n.parent) == black {
		return
	}
	t.insertCase3(n)
}

func (t *handleTree) insertCase3(n *node) {
	uncle := n.uncle()
	if colorOf(uncle) == red {
		n.parent.color = black
		uncle.color = black
		n.grandparent().color = red
		t.insertCase1(n.grandparent())
		return
	}
	t.insertCase4(n)
}

func (t *handleTree) insertCase4(n *node) {
	grandparent := n.grandparent()
	if n == n.parent.right && n.parent == grandparent.left {
		t.rotateLeft(n.parent)
		n = n.left
	} else if n == n.parent.left && n.parent == grandparent.right {
		t.rotateRight(n.parent)
		n = n.right
	}

	n.parent.color = black
	grandparent = n.grandparent()
	grandparent.color = red
	if n == n.parent.left && n.parent == grandparent.left {
		t.rotateRight(grandparent)
	} else if n == n.parent.right && n.parent == grandparent.right {
		t.rotateLeft(grandparent)
	}
}

func colorOf(n *node) color {
	if n == nil {
		return black
	}
	return n.color
}
