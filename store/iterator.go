package store

import (
	"bytes"

	"github.com/iov-one/bridge/errors"
)

// mergeIterator combines a snapshot of cached items with the iterator of
// the parent store. Cached values shadow the parent ones and deleted items
// hide them.
type mergeIterator struct {
	items   []keyer
	idx     int
	reverse bool

	parent    Iterator
	parentKey []byte
	parentVal []byte
	// parentHas is true when parentKey and parentVal hold a value that
	// was not returned yet.
	parentHas  bool
	parentDone bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, reverse bool) *mergeIterator {
	return &mergeIterator{
		items:   items,
		reverse: reverse,
		parent:  parent,
	}
}

// Next returns the next key/value pair in the order of iteration, or
// errors.ErrIteratorDone when both sources are exhausted.
func (m *mergeIterator) Next() ([]byte, []byte, error) {
	for {
		if err := m.peekParent(); err != nil {
			return nil, nil, err
		}

		hasOwn := m.idx < len(m.items)
		switch {
		case !hasOwn && !m.parentHas:
			return nil, nil, errors.ErrIteratorDone
		case !hasOwn:
			return m.takeParent()
		case !m.parentHas:
			if key, value, ok := m.takeOwn(); ok {
				return key, value, nil
			}
			continue
		}

		cmp := bytes.Compare(m.items[m.idx].Key(), m.parentKey)
		if m.reverse {
			cmp = -cmp
		}
		switch {
		case cmp > 0:
			return m.takeParent()
		case cmp == 0:
			// Cached value overwrites the parent one.
			m.parentHas = false
		}
		if key, value, ok := m.takeOwn(); ok {
			return key, value, nil
		}
	}
}

func (m *mergeIterator) peekParent() error {
	if m.parentHas || m.parentDone {
		return nil
	}
	key, value, err := m.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			m.parentDone = true
			return nil
		}
		return err
	}
	m.parentKey, m.parentVal, m.parentHas = key, value, true
	return nil
}

func (m *mergeIterator) takeParent() ([]byte, []byte, error) {
	m.parentHas = false
	return m.parentKey, m.parentVal, nil
}

// takeOwn consumes the current cached item. It returns false if the item
// is a deletion marker.
func (m *mergeIterator) takeOwn() ([]byte, []byte, bool) {
	item := m.items[m.idx]
	m.idx++
	if s, ok := item.(setItem); ok {
		return s.Key(), s.value, true
	}
	return nil, nil, false
}

// Release releases the parent iterator.
func (m *mergeIterator) Release() {
	m.parent.Release()
	m.items = nil
}
