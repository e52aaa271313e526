package pubsub

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"

	"ladder"
)

// EventService publishes ladder events on the notifications topic so
// external reporting collaborators can consume the trade stream.
type EventService struct {
	client *Client
	logger ladder.Logger
}

func NewEventService(client *Client, logger ladder.Logger) *EventService {
	return &EventService{client, logger}
}

func (es *EventService) Publish(event ladder.Event) {
	es.publishOnNotificationsTopic(context.TODO(), event)
}

func (es *EventService) publishOnNotificationsTopic(
	ctx context.Context,
	event ladder.Event,
) {
	topicLogger := es.logger.WithField("topic", "notifications")

	messageData, err := json.Marshal(&notificationEvent{
		Type:    event.Type().String(),
		Payload: event.String(),
	})
	if err != nil {
		topicLogger.Errorf("could not marshal ladder event: [%v]", err)
		return
	}

	es.publishOnTopic(
		ctx,
		es.client.notificationsTopic,
		messageData,
		topicLogger,
	)
}

func (es *EventService) publishOnTopic(
	ctx context.Context,
	topic *pubsub.Topic,
	messageData []byte,
	topicLogger ladder.Logger,
) {
	result := topic.Publish(ctx, &pubsub.Message{
		Data: messageData,
	})

	go func() {
		id, err := result.Get(ctx)
		if err != nil {
			topicLogger.Errorf(
				"could not publish ladder event: [%v]",
				err,
			)
			return
		}

		topicLogger.Infof("published ladder event with ID: [%v]", id)
	}()
}

type notificationEvent struct {
	Type    string
	Payload string
}
