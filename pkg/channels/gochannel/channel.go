// Package gochannel provides the in-memory publisher and subscriber for the source event bus.
package gochannel

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// CreateChannel creates a GoChannel used as both publisher and subscriber.
func CreateChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            1000,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		logger,
	)

	return pubSub, pubSub, nil
}

// CreateTestChannel creates a persistent GoChannel that blocks publishers until the
// subscriber acks, so tests observe deliveries deterministically.
func CreateTestChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            10,
			Persistent:                     true,
			BlockPublishUntilSubscriberAck: true,
		},
		logger,
	)

	return pubSub, pubSub, nil
}
