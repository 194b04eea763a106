// Package testutil provides an in-memory broker for tests that exercise the
// producer and consumer paths without a running Kafka.
//
//	broker := testutil.NewBroker(3)
//	kc.SetProducer(broker.Producer())
//	kc.AddConsumer(broker.Consumer("greetings", "greetings-group", handler))
//
// The broker assigns each produced message a partition and the next offset of
// that partition, so handlers see delivery metadata as they would from Kafka.
package testutil
