package kconsumer

import (
	"context"
	"fmt"

	"github.com/birdayz/hamming/kserde"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the subset of *kgo.Client used by the Kafka consumer.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

var _ Producer = (*kgo.Client)(nil)

// KafkaConsumer produces every value as one record to a topic. The record key
// is the 1-based position of the value in the emitted sequence, so consumers
// of the topic can detect gaps.
type KafkaConsumer struct {
	producer   Producer
	topic      string
	serializer kserde.Serializer[int64]
	seq        int64
}

func Kafka(producer Producer, topic string, serializer kserde.Serializer[int64]) *KafkaConsumer {
	return &KafkaConsumer{
		producer:   producer,
		topic:      topic,
		serializer: serializer,
	}
}

func (k *KafkaConsumer) Consume(ctx context.Context, v int64) error {
	value, err := k.serializer(v)
	if err != nil {
		return fmt.Errorf("serialize %d: %w", v, err)
	}

	k.seq++
	key, err := kserde.Int64Serializer(k.seq)
	if err != nil {
		return err
	}

	if err := k.producer.ProduceSync(ctx, &kgo.Record{
		Topic: k.topic,
		Key:   key,
		Value: value,
	}).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", k.topic, err)
	}
	return nil
}
