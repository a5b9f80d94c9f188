package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/2nist/dawsheet/internal/command"
)

// DefaultPubSubBaseURL is the public Pub/Sub REST endpoint.
const DefaultPubSubBaseURL = "https://pubsub.googleapis.com"

// TokenSource returns a bearer token for one publish call.
type TokenSource func(ctx context.Context) (string, error)

// PubSubPublisher publishes envelope batches to a Google Pub/Sub topic over
// the REST API. Message data is the envelope's JSON wire form.
type PubSubPublisher struct {
	baseURL   string
	projectID string
	topicID   string
	token     TokenSource
	client    *http.Client
}

// NewPubSubPublisher creates a publisher for one project/topic pair. An empty
// baseURL means the public endpoint; a nil client means http.DefaultClient.
func NewPubSubPublisher(baseURL, projectID, topicID string, token TokenSource, client *http.Client) (*PubSubPublisher, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("project id is required")
	}
	if strings.TrimSpace(topicID) == "" {
		return nil, fmt.Errorf("topic id is required")
	}
	if token == nil {
		return nil, fmt.Errorf("token source is required")
	}
	if baseURL == "" {
		baseURL = DefaultPubSubBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &PubSubPublisher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		projectID: projectID,
		topicID:   topicID,
		token:     token,
		client:    client,
	}, nil
}

type pubsubMessage struct {
	Data       []byte            `json:"data"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type publishRequest struct {
	Messages []pubsubMessage `json:"messages"`
}

type publishResponse struct {
	MessageIDs []string `json:"messageIds"`
}

// Publish sends the batch as a single publish call. An empty batch is a no-op.
func (p *PubSubPublisher) Publish(ctx context.Context, envelopes []command.Envelope) error {
	if len(envelopes) == 0 {
		return nil
	}

	batchID := uuid.NewString()
	messages := make([]pubsubMessage, 0, len(envelopes))
	for _, env := range envelopes {
		data, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("encode envelope %s: %w", env.ID, err)
		}
		messages = append(messages, pubsubMessage{
			Data: data,
			Attributes: map[string]string{
				"type":    string(env.Type),
				"batchId": batchID,
			},
		})
	}

	body, err := json.Marshal(publishRequest{Messages: messages})
	if err != nil {
		return fmt.Errorf("encode publish request: %w", err)
	}
	url := fmt.Sprintf("%s/v1/projects/%s/topics/%s:publish", p.baseURL, p.projectID, p.topicID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build publish request: %w", err)
	}
	token, err := p.token(ctx)
	if err != nil {
		return fmt.Errorf("resolve publish token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("publish returned %s", resp.Status)
	}
	var result publishResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode publish response: %w", err)
	}
	if len(result.MessageIDs) != len(messages) {
		return fmt.Errorf("publish acknowledged %d of %d messages", len(result.MessageIDs), len(messages))
	}
	return nil
}
