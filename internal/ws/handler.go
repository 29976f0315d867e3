package ws

import (
	"encoding/json"
	"log"

	socketio "github.com/googollee/go-socket.io"

	"offerhub/internal/db"
	"offerhub/internal/model"
)

// LandingPageListItem is one landing page row pushed to admin clients.
type LandingPageListItem struct {
	ID           int    `json:"id"`
	PageID       string `json:"page_id"`
	TenantID     int    `json:"tenant_id"`
	Name         string `json:"name"`
	SEOPrefix    string `json:"seo_prefix"`
	TemplateType string `json:"template_type"`
	Status       string `json:"status"`
	PublishedURL string `json:"published_url"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// handleRequestLandingPages handles the request:landing-pages event
func handleRequestLandingPages(s socketio.Conn, data interface{}) {
	log.Printf("[WebSocket] request:landing-pages from client %s", s.ID())

	// Parse lastEventId from data
	var lastEventId int64 = 0
	if dataMap, ok := data.(map[string]interface{}); ok {
		if lastEventIdFloat, ok := dataMap["lastEventId"].(float64); ok {
			lastEventId = int64(lastEventIdFloat)
		}
	}

	// If lastEventId is provided, try to send incremental updates
	if lastEventId > 0 {
		if sendIncrementalUpdates(s, lastEventId) {
			return
		}
		log.Printf("[WebSocket] Incremental updates failed, falling back to full list")
	}

	// Send full list
	sendFullLandingPagesList(s)
}

// sendIncrementalUpdates sends incremental updates to the client
// Returns true if successful, false if should fall back to full list
func sendIncrementalUpdates(s socketio.Conn, lastEventId int64) bool {
	// Query incremental events (limit to 500)
	maxCount := 500
	events, err := GetIncrementalEvents(lastEventId, maxCount)
	if err != nil {
		log.Printf("[WebSocket] Failed to query incremental events: %v", err)
		return false
	}

	// If too many events (>= maxCount), fall back to full list
	if len(events) >= maxCount {
		log.Printf("[WebSocket] Too many incremental events (%d), falling back to full list", len(events))
		return false
	}

	// If no events, tell the client it is already current
	if len(events) == 0 {
		latestEventId, _ := GetLatestEventId()
		s.Emit("landing-pages:initial", map[string]interface{}{
			"items":       []interface{}{},
			"total":       0,
			"lastEventId": latestEventId,
		})
		return true
	}

	log.Printf("[WebSocket] Sending %d incremental events", len(events))
	for _, event := range events {
		var payload interface{}
		if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
			log.Printf("[WebSocket] Failed to unmarshal event payload: %v", err)
			continue
		}

		s.Emit("landing-pages:update", map[string]interface{}{
			"eventId": event.ID,
			"type":    event.EventType,
			"data":    payload,
		})
	}

	return true
}

// sendFullLandingPagesList sends the full landing pages list to the client
func sendFullLandingPagesList(s socketio.Conn) {
	var total int64
	query := db.GetDB().Model(&model.LandingPage{})

	if err := query.Count(&total).Error; err != nil {
		log.Printf("[WebSocket] Failed to count landing pages: %v", err)
		s.Emit("error", map[string]interface{}{
			"message": "Failed to query landing pages",
		})
		return
	}

	// Query all pages (limit to 10000 for safety)
	var pages []model.LandingPage
	if err := query.Limit(10000).Find(&pages).Error; err != nil {
		log.Printf("[WebSocket] Failed to query landing pages: %v", err)
		s.Emit("error", map[string]interface{}{
			"message": "Failed to query landing pages",
		})
		return
	}

	items := make([]LandingPageListItem, 0, len(pages))
	for _, page := range pages {
		items = append(items, LandingPageListItem{
			ID:           page.ID,
			PageID:       page.PageID,
			TenantID:     page.TenantID,
			Name:         page.Name,
			SEOPrefix:    page.SEOPrefix,
			TemplateType: page.TemplateType,
			Status:       page.Status,
			PublishedURL: page.PublishedURL,
			CreatedAt:    page.CreatedAt.Format("2006-01-02 15:04:05"),
			UpdatedAt:    page.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	latestEventId, _ := GetLatestEventId()

	s.Emit("landing-pages:initial", map[string]interface{}{
		"items":       items,
		"total":       total,
		"lastEventId": latestEventId,
	})

	log.Printf("[WebSocket] Sent full landing pages list: total=%d, lastEventId=%d", total, latestEventId)
}
