package logging

// unknownSizeStep is the byte interval used when a download reports no
// Content-Length.
const unknownSizeStep = 256 * 1024

// ProgressSampler suppresses repetitive byte-progress logs for a single
// download while preserving signal when the transfer crosses percentage
// buckets.
type ProgressSampler struct {
	bucketSize float64
	lastBucket int64
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 25%).
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 25
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event should be logged. A total <= 0
// means the size is unknown, in which case one event is emitted per
// unknownSizeStep bytes.
func (s *ProgressSampler) ShouldLog(written, total int64) bool {
	if s == nil {
		return true
	}
	var bucket int64
	if total > 0 {
		percent := float64(written) / float64(total) * 100
		if percent > 100 {
			percent = 100
		}
		bucket = int64(percent / s.bucketSize)
	} else {
		bucket = written / unknownSizeStep
	}
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears the sampler state.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastBucket = -1
}
