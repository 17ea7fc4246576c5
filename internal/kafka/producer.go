package kafka

import (
	"context"
	"encoding/json"
	"time"

	"ms-events/internal/models"

	"github.com/segmentio/kafka-go"
)

// Topics the event service publishes to.
const (
	TopicEventCreated = "events.event.created"
	TopicEventUpdated = "events.event.updated"
	TopicEventDeleted = "events.event.deleted"
	TopicEventStatus  = "events.event.status"
	TopicMemberJoined = "events.member.joined"
	TopicMemberLeft   = "events.member.left"
)

// Topics lists every topic the producer writes so startup can ensure they
// exist.
var Topics = []string{
	TopicEventCreated,
	TopicEventUpdated,
	TopicEventDeleted,
	TopicEventStatus,
	TopicMemberJoined,
	TopicMemberLeft,
}

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: writer}
}

// Publish writes one message to the given topic.
func (p *Producer) Publish(topic, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// membershipChange is the payload for join/leave topics.
type membershipChange struct {
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// PublishEventCreated streams the full event to the created topic.
func (p *Producer) PublishEventCreated(event models.Event) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Publish(TopicEventCreated, event.ID, msgBytes)
}

// PublishEventUpdated streams the full event after a descriptive edit.
func (p *Producer) PublishEventUpdated(event models.Event) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Publish(TopicEventUpdated, event.ID, msgBytes)
}

// PublishEventDeleted streams a tombstone for a removed event.
func (p *Producer) PublishEventDeleted(eventID string) error {
	msgBytes, err := json.Marshal(map[string]string{"eventId": eventID})
	if err != nil {
		return err
	}
	return p.Publish(TopicEventDeleted, eventID, msgBytes)
}

// PublishStatusChanged streams a lifecycle transition.
func (p *Producer) PublishStatusChanged(event models.Event) error {
	msgBytes, err := json.Marshal(map[string]string{
		"eventId": event.ID,
		"status":  event.Status,
	})
	if err != nil {
		return err
	}
	return p.Publish(TopicEventStatus, event.ID, msgBytes)
}

// PublishMemberJoined streams a join.
func (p *Producer) PublishMemberJoined(eventID, userID string) error {
	msgBytes, err := json.Marshal(membershipChange{
		EventID:   eventID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.Publish(TopicMemberJoined, eventID, msgBytes)
}

// PublishMemberLeft streams a leave.
func (p *Producer) PublishMemberLeft(eventID, userID string) error {
	msgBytes, err := json.Marshal(membershipChange{
		EventID:   eventID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.Publish(TopicMemberLeft, eventID, msgBytes)
}
