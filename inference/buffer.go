package inference

import "sync"

// SensorBuffer keeps a sliding window of raw gas readings and produces
// sequences ready for Predict once enough samples have arrived. Safe for
// concurrent use; the collector feeds it from both the poll loop and the
// MQTT handler.
type SensorBuffer struct {
	mu   sync.Mutex
	size int
	rows [][]float64
}

func NewSensorBuffer(size int) *SensorBuffer {
	if size <= 0 {
		size = SequenceLength
	}
	return &SensorBuffer{size: size}
}

// Add appends one reading of the three gas channels.
func (b *SensorBuffer) Add(mq135, mq3, mics5524 float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rows = append(b.rows, []float64{mq135, mq3, mics5524})
	if len(b.rows) > b.size {
		b.rows = b.rows[len(b.rows)-b.size:]
	}
}

func (b *SensorBuffer) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rows) >= b.size
}

func (b *SensorBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rows)
}

// Sequence returns a copy of the current window, oldest first, or nil
// when the buffer is not full yet.
func (b *SensorBuffer) Sequence() [][]float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.rows) < b.size {
		return nil
	}

	out := make([][]float64, b.size)
	for i, row := range b.rows[len(b.rows)-b.size:] {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Channels splits the current window into per-sensor lists in model
// input order, or nil when not ready.
func (b *SensorBuffer) Channels() (mq135, mq3, mics5524 []float64) {
	seq := b.Sequence()
	if seq == nil {
		return nil, nil, nil
	}

	mq135 = make([]float64, len(seq))
	mq3 = make([]float64, len(seq))
	mics5524 = make([]float64, len(seq))
	for i, row := range seq {
		mq135[i] = row[0]
		mq3[i] = row[1]
		mics5524[i] = row[2]
	}
	return mq135, mq3, mics5524
}

func (b *SensorBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows = nil
}
