package domain

import "time"

type EventType string

const (
	EventUserRegistered       EventType = "user.registered"
	EventRecommendationServed EventType = "recommendation.served"
)

type Event struct {
	Type       EventType      `json:"type"`
	ChatID     ChatID         `json:"chat_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type Stats struct {
	KnownUsers            int       `json:"known_users"`
	RecommendationsServed int64     `json:"recommendations_served"`
	LastRegisteredChat    ChatID    `json:"last_registered_chat,omitempty"`
	UpdatedAt             time.Time `json:"updated_at"`
}
