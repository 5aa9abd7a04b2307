// Package kafka provides the Kafka publisher and subscriber for the source event bus.
package kafka

import (
	"errors"
	"strings"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
)

// ErrNoBrokers is returned when no Kafka broker address is configured.
var ErrNoBrokers = errors.New("no kafka brokers configured")

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	brokers := make([]string, 0)

	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}

	return brokers
}

// CreateChannel creates a Kafka publisher and a subscriber in consumer group "cg-<serviceName>".
func CreateChannel(logger watermill.LoggerAdapter, brokers []string, serviceName string) (*kafka.Publisher, *kafka.Subscriber, error) {
	if len(brokers) == 0 {
		return nil, nil, ErrNoBrokers
	}

	saramaSubscriberConfig := kafka.DefaultSaramaSubscriberConfig()
	saramaSubscriberConfig.Consumer.Offsets.Initial = sarama.OffsetOldest

	subscriber, err := kafka.NewSubscriber(
		kafka.SubscriberConfig{
			Brokers:               brokers,
			Unmarshaler:           kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: saramaSubscriberConfig,
			ConsumerGroup:         "cg-" + serviceName,
			OTELEnabled:           true,
		},
		logger,
	)
	if err != nil {
		return nil, nil, err
	}

	saramaPublisherConfig := sarama.NewConfig()
	saramaPublisherConfig.Producer.Return.Successes = true
	saramaPublisherConfig.Producer.RequiredAcks = sarama.WaitForAll

	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:               brokers,
			Marshaler:             kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: saramaPublisherConfig,
			OTELEnabled:           true,
		},
		logger,
	)
	if err != nil {
		_ = subscriber.Close()

		return nil, nil, err
	}

	return publisher, subscriber, nil
}
