package storage

// RecordOption applies a configuration option to the RecordWriter.
type RecordOption func(*RecordWriter)

// WithBatchSize sets how many records are buffered before a durable flush.
func WithBatchSize(n int) RecordOption {
	return func(rw *RecordWriter) {
		if n > 0 {
			rw.batchSize = n
		}
	}
}
