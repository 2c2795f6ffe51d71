package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// newKafkaClient connects to the brokers and makes sure topic exists.
func newKafkaClient(ctx context.Context, log logr.Logger, brokers []string, topic string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	resp, err := kadm.NewClient(client).CreateTopic(ctx, 1, 1, nil, topic)
	if err == nil {
		err = resp.Err
	}
	switch {
	case err == nil:
		log.Info("Created topic", "topic", topic)
	case errors.Is(err, kerr.TopicAlreadyExists):
		log.V(1).Info("Topic exists", "topic", topic)
	default:
		client.Close()
		return nil, fmt.Errorf("failed to create topic %s: %w", topic, err)
	}

	return client, nil
}
