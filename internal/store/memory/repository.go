package memory

// Repository keeps the records of one entity type keyed by id, in insertion order.
// It is not safe for concurrent use; Store serializes access to every repository
// behind a single lock.
type Repository[T any] struct {
	records map[int64]T
	order   []int64
}

// NewRepository returns an empty repository.
func NewRepository[T any]() *Repository[T] {
	return &Repository[T]{records: make(map[int64]T)}
}

// Get returns the record stored under id.
func (r *Repository[T]) Get(id int64) (T, bool) {
	rec, ok := r.records[id]
	return rec, ok
}

// Put inserts or replaces the record stored under id.
// Replacing keeps the record's original position.
func (r *Repository[T]) Put(id int64, rec T) {
	if _, exists := r.records[id]; !exists {
		r.order = append(r.order, id)
	}
	r.records[id] = rec
}

// List returns every record in insertion order. The result is never nil.
func (r *Repository[T]) List() []T {
	return r.Filter(func(T) bool { return true })
}

// Filter returns the records for which keep returns true, in insertion order.
// It scans the whole repository.
func (r *Repository[T]) Filter(keep func(T) bool) []T {
	out := make([]T, 0)
	for _, id := range r.order {
		if rec := r.records[id]; keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Find returns the first record, in insertion order, that matches.
func (r *Repository[T]) Find(match func(T) bool) (T, bool) {
	for _, id := range r.order {
		if rec := r.records[id]; match(rec) {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// Last returns the most recently inserted record.
func (r *Repository[T]) Last() (T, bool) {
	if len(r.order) == 0 {
		var zero T
		return zero, false
	}
	return r.records[r.order[len(r.order)-1]], true
}

// Len returns the number of stored records.
func (r *Repository[T]) Len() int {
	return len(r.order)
}
