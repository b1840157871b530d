// Package cmap provides a concurrent-safe sharded map.
package cmap

// Update replaces the value for key with fn(current, exists) under the
// shard lock and returns the stored value.
func (m *Map[K, V]) Update(key K, fn func(value V, exists bool) V) V {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	existing, exists := shard.items[key]
	newValue := fn(existing, exists)
	shard.items[key] = newValue
	return newValue
}

// DeleteIf removes a key only while pred holds for its current value.
// Returns true if the key was removed.
func (m *Map[K, V]) DeleteIf(key K, pred func(value V) bool) bool {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	val, ok := shard.items[key]
	if !ok || !pred(val) {
		return false
	}
	delete(shard.items, key)
	return true
}

// Sweep removes every entry for which pred holds, one shard at a time.
// Returns the number of removed entries.
func (m *Map[K, V]) Sweep(pred func(key K, value V) bool) int {
	removed := 0
	for _, shard := range m.shards {
		shard.mu.Lock()
		for k, v := range shard.items {
			if pred(k, v) {
				delete(shard.items, k)
				removed++
			}
		}
		shard.mu.Unlock()
	}
	return removed
}
