package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// IntakeRecorded is published after an entry and its daily total commit.
type IntakeRecorded struct {
	EntryID   string    `json:"entryId"`
	UserID    string    `json:"userId"`
	FoodName  string    `json:"foodName"`
	MealType  string    `json:"mealType"`
	Source    string    `json:"source"`
	Calories  float64   `json:"calories"`
	Carbs     float64   `json:"carbs"`
	Proteins  float64   `json:"proteins"`
	Fats      float64   `json:"fats"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher sends intake events to a Pub/Sub topic. Publishing never blocks the
// caller on the broker acknowledgement; failures are logged.
type Publisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	wg     sync.WaitGroup
}

func NewPublisher(ctx context.Context, projectID, topicName, credentialsFile string) (*Publisher, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return newPublisher(ctx, projectID, topicName, opts...)
}

func newPublisher(ctx context.Context, projectID, topicName string, opts ...option.ClientOption) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to check topic %s: %w", topicName, err)
	}
	if !exists {
		log.Printf("[Events] Topic %s not found, creating it", topicName)
		if topic, err = client.CreateTopic(ctx, topicName); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to create topic %s: %w", topicName, err)
		}
	}

	return &Publisher{client: client, topic: topic}, nil
}

func (p *Publisher) PublishIntake(ctx context.Context, event IntakeRecorded) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	result := p.topic.Publish(context.WithoutCancel(ctx), &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"type":   "intake.recorded",
			"userId": event.UserID,
		},
	})

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		// the request context may already be done once the handler returns
		getCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := result.Get(getCtx); err != nil {
			log.Printf("[Events] Failed to publish intake %s: %v", event.EntryID, err)
		}
	}()
	return nil
}

// Close flushes pending messages and releases the client.
func (p *Publisher) Close() error {
	p.topic.Stop()
	p.wg.Wait()
	return p.client.Close()
}

// NopPublisher drops every event. Used when Pub/Sub is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishIntake(context.Context, IntakeRecorded) error { return nil }

func (NopPublisher) Close() error { return nil }
