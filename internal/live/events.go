package live

import (
	"encoding/json"
	"time"

	"github.com/erazemk/omara/internal/model"
)

// Event types.
const (
	EventSnapshot = "item_snapshot"
	EventUpdated  = "item_updated"
	EventDeleted  = "item_deleted"
)

// Event is the payload pushed to item watchers.
type Event struct {
	Type      string      `json:"type"`
	ItemID    string      `json:"item_id"`
	Item      *model.Item `json:"item,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// ItemTopic is the topic of a single item's changes.
func ItemTopic(itemID string) string {
	return "item:" + itemID
}

func encode(evt Event) ([]byte, error) {
	evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return json.Marshal(evt)
}

// ItemUpdated publishes the new state of an item.
func (h *Hub) ItemUpdated(item *model.Item) {
	if h == nil || item == nil {
		return
	}
	b, err := encode(Event{Type: EventUpdated, ItemID: item.ID, Item: item})
	if err != nil {
		h.logger.Error("encoding item event", "item_id", item.ID, "error", err)
		return
	}
	h.Publish(ItemTopic(item.ID), b)
}

// ItemDeleted tells watchers that an item is gone.
func (h *Hub) ItemDeleted(itemID string) {
	if h == nil {
		return
	}
	b, err := encode(Event{Type: EventDeleted, ItemID: itemID})
	if err != nil {
		return
	}
	h.Publish(ItemTopic(itemID), b)
}
