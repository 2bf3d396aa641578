package generic

// =============================================================================
// REDUCER - Incremental aggregation protocol
// =============================================================================

// Reducer folds values of T into a running aggregate.
//
// Subtract is the mirror of Accumulate and clamps every field at zero on its
// own, so subtracting more than was added never produces a negative field.
// For any value d previously accumulated into m:
//
//	Accumulate(Subtract(m, d), d) == m
type Reducer[T any] interface {
	Empty() T
	Accumulate(base, add T) T
	Subtract(base, sub T) T
}

// SegmentFields returns pointers to the named segment fields of a breakdown,
// always in the same order.
type SegmentFields[T any] func(v *T) []*Segment

// SegmentReducer implements Reducer for any breakdown made only of Segments.
// Each breakdown type supplies its zero value and its field list; the
// arithmetic is shared.
type SegmentReducer[T any] struct {
	empty  func() T
	fields SegmentFields[T]
}

// NewSegmentReducer builds a reducer from a zero-value constructor and a
// field accessor.
func NewSegmentReducer[T any](empty func() T, fields SegmentFields[T]) SegmentReducer[T] {
	return SegmentReducer[T]{empty: empty, fields: fields}
}

// Empty returns the zeroed breakdown with its fixed percent tags.
func (r SegmentReducer[T]) Empty() T { return r.empty() }

// Accumulate adds add's hours into a copy of base, field by field.
func (r SegmentReducer[T]) Accumulate(base, add T) T {
	out := base
	dst, src := r.fields(&out), r.fields(&add)
	for i := range dst {
		dst[i].Hours = RoundHours(dst[i].Hours + src[i].Hours)
	}
	return out
}

// Subtract removes sub's hours from a copy of base, clamping each field at 0.
func (r SegmentReducer[T]) Subtract(base, sub T) T {
	out := base
	dst, src := r.fields(&out), r.fields(&sub)
	for i := range dst {
		dst[i].Hours = RoundHours(max(dst[i].Hours-src[i].Hours, 0))
	}
	return out
}

// Total sums the hours of every field of v.
func (r SegmentReducer[T]) Total(v T) float64 {
	var total float64
	for _, seg := range r.fields(&v) {
		total += seg.Hours
	}
	return RoundHours(total)
}

// Segments returns copies of v's fields in declaration order.
func (r SegmentReducer[T]) Segments(v T) []Segment {
	fields := r.fields(&v)
	out := make([]Segment, len(fields))
	for i, seg := range fields {
		out[i] = *seg
	}
	return out
}
