package filter

// refEntry is a reference-counted cache slot.
type refEntry[K comparable, V any] struct {
	key  K
	val  V
	refs int
}

// refList is a most-recently-used ordered list of reference-counted
// entries with a soft capacity. It is not synchronized.
type refList[K comparable, V any] struct {
	entries  []*refEntry[K, V] // head first
	capacity int
}

// acquire looks key up. A hit gains a reference and moves to the head.
// On a miss with a full list the tail is evicted when unreferenced and
// moved to the head otherwise; the evicted entry is returned.
func (l *refList[K, V]) acquire(key K) (hit, evicted *refEntry[K, V], migrated bool) {
	last := len(l.entries) - 1
	for i, e := range l.entries {
		if e.key == key {
			e.refs++
			l.moveToHead(i)
			return e, nil, false
		}

		if i == last && len(l.entries) >= l.capacity {
			l.entries = l.entries[:last]
			if e.refs == 0 {
				return nil, e, false
			}
			l.pushHead(e)
			return nil, nil, true
		}
	}
	return nil, nil, false
}

// insert adds a new entry holding one reference at the head.
func (l *refList[K, V]) insert(key K, v V) *refEntry[K, V] {
	e := &refEntry[K, V]{key: key, val: v, refs: 1}
	l.pushHead(e)
	return e
}

func (l *refList[K, V]) find(key K) *refEntry[K, V] {
	for _, e := range l.entries {
		if e.key == key {
			return e
		}
	}
	return nil
}

func (l *refList[K, V]) moveToHead(i int) {
	if i == 0 {
		return
	}
	e := l.entries[i]
	copy(l.entries[1:i+1], l.entries[:i])
	l.entries[0] = e
}

func (l *refList[K, V]) pushHead(e *refEntry[K, V]) {
	l.entries = append(l.entries, nil)
	copy(l.entries[1:], l.entries)
	l.entries[0] = e
}
