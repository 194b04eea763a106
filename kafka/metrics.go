package kafka

import (
	kafkago "github.com/segmentio/kafka-go"
)

// WriterMetrics is the JSON view of a writer's counters since the last snapshot.
type WriterMetrics struct {
	Writes       int64   `json:"writes"`
	Messages     int64   `json:"messages"`
	Bytes        int64   `json:"bytes"`
	Errors       int64   `json:"errors"`
	Retries      int64   `json:"retries"`
	AvgWriteTime float64 `json:"avg_write_time_ms"`
	MaxWriteTime float64 `json:"max_write_time_ms"`
	Topic        string  `json:"topic,omitempty"`
}

// ReaderMetrics is the JSON view of a reader's counters since the last snapshot.
type ReaderMetrics struct {
	Dials      int64  `json:"dials"`
	Fetches    int64  `json:"fetches"`
	Messages   int64  `json:"messages"`
	Bytes      int64  `json:"bytes"`
	Errors     int64  `json:"errors"`
	Rebalances int64  `json:"rebalances"`
	Offset     int64  `json:"offset"`
	Lag        int64  `json:"lag"`
	Topic      string `json:"topic"`
	Partition  string `json:"partition"`
	GroupID    string `json:"group_id,omitempty"`
}

// Stats groups the metrics of the producer and every consumer.
type Stats struct {
	Producer  *WriterMetrics  `json:"producer,omitempty"`
	Consumers []ReaderMetrics `json:"consumers"`
}

// ProducerStats is implemented by producers that expose writer metrics.
type ProducerStats interface {
	Stats() WriterMetrics
}

// ConsumerStats is implemented by consumers that expose reader metrics.
type ConsumerStats interface {
	Stats() ReaderMetrics
}

// CollectWriterMetrics converts kafka-go writer stats.
func CollectWriterMetrics(stats kafkago.WriterStats) WriterMetrics {
	return WriterMetrics{
		Writes:       stats.Writes,
		Messages:     stats.Messages,
		Bytes:        stats.Bytes,
		Errors:       stats.Errors,
		Retries:      stats.Retries,
		AvgWriteTime: float64(stats.WriteTime.Avg) / 1e6,
		MaxWriteTime: float64(stats.WriteTime.Max) / 1e6,
		Topic:        stats.Topic,
	}
}

// CollectReaderMetrics converts kafka-go reader stats.
func CollectReaderMetrics(stats kafkago.ReaderStats) ReaderMetrics {
	return ReaderMetrics{
		Dials:      stats.Dials,
		Fetches:    stats.Fetches,
		Messages:   stats.Messages,
		Bytes:      stats.Bytes,
		Errors:     stats.Errors,
		Rebalances: stats.Rebalances,
		Offset:     stats.Offset,
		Lag:        stats.Lag,
		Topic:      stats.Topic,
		Partition:  stats.Partition,
	}
}
