package registry

import "github.com/smartcad/cadlink/internal/cad"

// Iterator walks the registry in handle order
type Iterator struct {
	tree *handleTree
	cur  *node
	pos  position
}

type position byte

const (
	begin, onmyway, end position = 0, 1, 2
)

// Next moves the iterator to the next element
func (it *Iterator) Next() bool {
	switch it.pos {
	case end:
		it.cur = nil
		return false
	case begin:
		it.cur = it.tree.leftmost()
		if it.cur == nil {
			it.pos = end
			return false
		}
		it.pos = onmyway
		return true
	}

	if it.cur.right != nil {
		it.cur = it.cur.right
		for it.cur.left != nil {
			it.cur = it.cur.left
		}
		return true
	}

	for it.cur.parent != nil {
		child := it.cur
		it.cur = it.cur.parent
		if child == it.cur.left {
			return true
		}
	}

	it.cur = nil
	it.pos = end
	return false
}

// Prev moves the iterator to the previous element
func (it *Iterator) Prev() bool {
	switch it.pos {
	case begin:
		it.cur = nil
		return false
	case end:
		it.cur = it.tree.rightmost()
		if it.cur == nil {
			it.pos = begin
			return false
		}
		it.pos = onmyway
		return true
	}

	if it.cur.left != nil {
		it.cur = it.cur.left
		for it.cur.right != nil {
			it.cur = it.cur.right
		}
		return true
	}

	for it.cur.parent != nil {
		child := it.cur
		it.cur = it.cur.parent
		if child == it.cur.right {
			return true
		}
	}

	it.cur = nil
	it.pos = begin
	return false
}

// Handle of the current element
func (it *Iterator) Handle() cad.Handle {
	return it.cur.handle
}

// Object of the current element
func (it *Iterator) Object() cad.Object {
	return it.cur.obj
}

// Begin resets the iterator to one-before-first
func (it *Iterator) Begin() {
	it.cur = nil
	it.pos = begin
}

// End moves the iterator to one-past-the-end
func (it *Iterator) End() {
	it.cur = nil
	it.pos = end
}

// First moves the iterator to the first element
func (it *Iterator) First() bool {
	it.Begin()
	return it.Next()
}

// Last moves the iterator to the last element
func (it *Iterator) Last() bool {
	it.End()
	return it.Prev()
}
