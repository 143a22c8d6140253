package live

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/erazemk/omara/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Loader returns the current state of an item, or nil once it is gone.
type Loader func(ctx context.Context) (*model.Item, error)

// WatchItem upgrades the request and subscribes it to an item's changes.
// The client is registered before load runs, so no change published after
// the snapshot is read can be missed. Access checks are the caller's job.
func (h *Hub) WatchItem(w http.ResponseWriter, r *http.Request, itemID string, load Loader) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	client := NewClient(h, conn, ItemTopic(itemID))
	h.Register(client)
	go client.WritePump()
	go client.ReadPump()

	evt := Event{Type: EventSnapshot, ItemID: itemID}
	item, err := load(r.Context())
	switch {
	case err != nil:
		h.logger.Error("loading item snapshot", "item_id", itemID, "error", err)
		h.Unregister(client)
		return
	case item == nil:
		evt.Type = EventDeleted
	default:
		evt.Item = item
	}

	data, err := encode(evt)
	if err != nil {
		h.logger.Error("encoding item snapshot", "item_id", itemID, "error", err)
		h.Unregister(client)
		return
	}
	if !h.deliver(client, data) {
		h.Unregister(client)
	}
}
