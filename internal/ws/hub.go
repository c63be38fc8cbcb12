package ws

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

type scope int

const (
	scopeUser scope = iota
	scopeAdmins
	scopeAll
)

type publication struct {
	scope  scope
	userID int
	client *Client
	data   []byte
}

// Hub is the topic-routing table for live chat delivery. Subscribers
// are keyed by user id, admins additionally join a shared admin set.
// All state is owned by the Run goroutine; the public methods only
// touch channels.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	publish    chan publication

	users  map[int]map[*Client]struct{}
	admins map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan publication, 100),
		users:      make(map[int]map[*Client]struct{}),
		admins:     make(map[*Client]struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.admins {
				delete(h.admins, client)
			}
			for userID, clients := range h.users {
				for client := range clients {
					close(client.send)
				}
				delete(h.users, userID)
			}
			return

		case client := <-h.register:
			if h.users[client.userID] == nil {
				h.users[client.userID] = make(map[*Client]struct{})
			}
			h.users[client.userID][client] = struct{}{}
			if client.admin {
				h.admins[client] = struct{}{}
			}
			zap.L().Debug("chat client subscribed", zap.Int("userID", client.userID), zap.Bool("admin", client.admin))

		case client := <-h.unregister:
			h.drop(client)

		case pub := <-h.publish:
			h.deliver(pub)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) PublishToUser(userID int, event string, payload any) {
	h.enqueue(publication{scope: scopeUser, userID: userID}, event, payload)
}

func (h *Hub) PublishToAdmins(event string, payload any) {
	h.enqueue(publication{scope: scopeAdmins}, event, payload)
}

func (h *Hub) PublishToAll(event string, payload any) {
	h.enqueue(publication{scope: scopeAll}, event, payload)
}

// PublishToClient targets a single connection, e.g. a chatError for the
// party that caused it. Routed through the run loop so it never races
// with a drop.
func (h *Hub) PublishToClient(client *Client, event string, payload any) {
	h.enqueue(publication{scope: scopeUser, userID: client.userID, client: client}, event, payload)
}

func (h *Hub) enqueue(pub publication, event string, payload any) {
	data, err := marshalEvent(event, payload)
	if err != nil {
		zap.L().Error("failed to marshal event", zap.String("event", event), zap.Error(err))
		return
	}
	pub.data = data
	h.publish <- pub
}

func (h *Hub) deliver(pub publication) {
	switch pub.scope {
	case scopeUser:
		for client := range h.users[pub.userID] {
			if pub.client != nil && pub.client != client {
				continue
			}
			h.send(client, pub.data)
		}
	case scopeAdmins:
		for client := range h.admins {
			h.send(client, pub.data)
		}
	case scopeAll:
		for _, clients := range h.users {
			for client := range clients {
				h.send(client, pub.data)
			}
		}
	}
}

// send drops subscribers that cannot keep up.
func (h *Hub) send(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		zap.L().Info("dropping slow chat client", zap.Int("userID", client.userID))
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	clients, ok := h.users[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.users, client.userID)
	}
	delete(h.admins, client)
	close(client.send)
}

func marshalEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data,omitempty"`
	}{Event: event, Data: data})
}
