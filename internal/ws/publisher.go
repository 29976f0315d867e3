package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"offerhub/internal/db"
	"offerhub/internal/model"
)

const landingPagesTopic = "landing-pages"

// PublishLandingPageEvent publishes a landing page event to the database and broadcasts it
// eventType: "add", "update", "delete", "publish"
// payload: the landing page data to be sent to clients
func PublishLandingPageEvent(eventType string, payload interface{}) error {
	// 1. Serialize payload to JSON
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WebSocket] Failed to marshal payload: %v", err)
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	// 2. Write event to database
	event := model.WSEvent{
		Topic:     landingPagesTopic,
		EventType: eventType,
		Payload:   string(payloadJSON),
	}

	if err := db.GetDB().Create(&event).Error; err != nil {
		log.Printf("[WebSocket] Failed to write event to database: %v", err)
		return fmt.Errorf("failed to write event to database: %w", err)
	}

	// 3. Broadcast event to all connected clients
	// Note: Broadcast failure should not affect the main flow
	broadcastData := map[string]interface{}{
		"eventId": event.ID,
		"type":    eventType,
		"data":    payload,
	}

	BroadcastToAll("landing-pages:update", broadcastData)

	log.Printf("[WebSocket] Event broadcasted: eventId=%d, type=%s", event.ID, eventType)

	return nil
}

// GetIncrementalEvents retrieves incremental events from the database
// Returns events with id > lastEventId, limited to maxCount
func GetIncrementalEvents(lastEventId int64, maxCount int) ([]model.WSEvent, error) {
	var events []model.WSEvent

	err := db.GetDB().
		Where("topic = ? AND id > ?", landingPagesTopic, lastEventId).
		Order("id ASC").
		Limit(maxCount).
		Find(&events).Error

	if err != nil {
		return nil, fmt.Errorf("failed to query incremental events: %w", err)
	}

	return events, nil
}

// GetLatestEventId retrieves the latest event ID from the database
func GetLatestEventId() (int64, error) {
	var event model.WSEvent

	err := db.GetDB().
		Where("topic = ?", landingPagesTopic).
		Order("id DESC").
		Limit(1).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query latest event: %w", err)
	}

	return event.ID, nil
}
