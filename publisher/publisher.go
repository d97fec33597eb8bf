// Package publisher emits domain events to NATS for downstream consumers
// (notification fan-out). Publishing is best-effort: a nil publisher or a
// failed publish never fails the request that triggered it.
package publisher

import (
	"encoding/json"
	"log"

	"github.com/sarathradhan/social-media-app/events"
	"github.com/sarathradhan/social-media-app/natsclient"
)

type EventPublisher struct {
	nats *natsclient.Client
}

func NewEventPublisher(nats *natsclient.Client) *EventPublisher {
	return &EventPublisher{nats: nats}
}

func (p *EventPublisher) PublishPostCreated(event events.PostCreatedEvent) {
	p.publish(events.PostCreated, event)
}

func (p *EventPublisher) PublishPostDeleted(event events.PostDeletedEvent) {
	p.publish(events.PostDeleted, event)
}

func (p *EventPublisher) PublishPostLiked(event events.PostLikedEvent) {
	p.publish(events.PostLiked, event)
}

func (p *EventPublisher) PublishUserFollowed(event events.UserFollowedEvent) {
	p.publish(events.UserFollowed, event)
}

func (p *EventPublisher) publish(subject string, event interface{}) {
	if p == nil || p.nats == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", subject, err)
		return
	}

	if err := p.nats.Publish(subject, data); err != nil {
		log.Printf("Failed to publish %s event: %v", subject, err)
		return
	}

	log.Printf("Published event: %s", subject)
}
