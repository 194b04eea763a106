// Package kafka adapts segmentio/kafka-go to the service: broker connection
// settings with TLS/SASL, the Message type handed to listeners, error
// classification, writer/reader metrics and the lifecycle component that owns
// the producer and consumers.
//
//   - kafka/producer: writes messages through a kafka-go Writer
//   - kafka/consumer: runs a consume loop over a kafka-go Reader
//   - kafka/testutil: in-memory broker for tests
//
// Configuration:
//
//	kafka:
//	  brokers: ["localhost:9092"]
//	  compression: snappy
//	  start_offset: first
package kafka
