package components

// TrailSample is a snapshot of a particle's position and tint at one past tick.
type TrailSample struct {
	Position Position
	Tint     Tint
}

// Trail is a fixed-capacity history of recent samples, oldest first.
// Pushing onto a full trail evicts the oldest sample.
type Trail struct {
	samples    []TrailSample
	writeIndex int
	count      int
}

// NewTrail creates an empty trail holding at most capacity samples.
func NewTrail(capacity int) Trail {
	if capacity < 1 {
		panic("components: trail capacity must be positive")
	}
	return Trail{samples: make([]TrailSample, capacity)}
}

// Push appends a sample, evicting the oldest one if the trail is full.
func (t *Trail) Push(s TrailSample) {
	t.samples[t.writeIndex] = s
	t.writeIndex = (t.writeIndex + 1) % len(t.samples)
	if t.count < len(t.samples) {
		t.count++
	}
}

// Len returns the number of stored samples.
func (t *Trail) Len() int {
	return t.count
}

// Cap returns the maximum number of samples.
func (t *Trail) Cap() int {
	return len(t.samples)
}

// At returns the sample at age rank i, where 0 is the oldest.
func (t *Trail) At(i int) TrailSample {
	if i < 0 || i >= t.count {
		panic("components: trail index out of range")
	}
	start := t.writeIndex - t.count
	if start < 0 {
		start += len(t.samples)
	}
	return t.samples[(start+i)%len(t.samples)]
}

// Each calls fn for every sample from oldest to newest.
func (t *Trail) Each(fn func(rank int, s TrailSample)) {
	for i := 0; i < t.count; i++ {
		fn(i, t.At(i))
	}
}

// Reset empties the trail, keeping its capacity.
func (t *Trail) Reset() {
	t.writeIndex = 0
	t.count = 0
}
