package cache

import "container/list"

type entry[V any] struct {
	key   string
	value V
}

// orderedMap is a map that remembers insertion order. It is not safe for
// concurrent use; Cache serializes access.
type orderedMap[V any] struct {
	order *list.List
	index map[string]*list.Element
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

func (m *orderedMap[V]) get(key string) (V, bool) {
	if el, ok := m.index[key]; ok {
		return el.Value.(*entry[V]).value, true
	}
	var zero V
	return zero, false
}

// insert adds a new key at the back. Existing keys are left untouched.
func (m *orderedMap[V]) insert(key string, value V) bool {
	if _, ok := m.index[key]; ok {
		return false
	}
	m.index[key] = m.order.PushBack(&entry[V]{key: key, value: value})
	return true
}

// evictOldest removes the first inserted key.
func (m *orderedMap[V]) evictOldest() (string, bool) {
	front := m.order.Front()
	if front == nil {
		return "", false
	}
	e := m.order.Remove(front).(*entry[V])
	delete(m.index, e.key)
	return e.key, true
}

func (m *orderedMap[V]) len() int {
	return m.order.Len()
}

func (m *orderedMap[V]) keys() []string {
	keys := make([]string, 0, m.order.Len())
	for el := m.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[V]).key)
	}
	return keys
}
