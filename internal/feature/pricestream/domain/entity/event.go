package entity

import "time"

// Event names exchanged over a streaming connection.
const (
	EventConnected   = "connected"
	EventError       = "error"
	EventPriceUpdate = "price-update"
	EventSubscribe   = "subscribe"
	EventUnsubscribe = "unsubscribe"
)

// Event is the envelope of every outbound frame.
type Event struct {
	Name string `json:"event"`
	ID   string `json:"id,omitempty"`
	Data any    `json:"data"`
}

// MessagePayload carries a human-readable message.
type MessagePayload struct {
	Message string `json:"message"`
}

// PriceUpdate is the payload of a price-update event.
type PriceUpdate struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// SubscriptionAck is the reply to a successful subscribe or unsubscribe request.
type SubscriptionAck struct {
	SubscribedSymbols []string `json:"subscribedSymbols"`
}

// ErrorReply is the reply to a request that could not be served.
type ErrorReply struct {
	Error string `json:"error"`
}

// NewConnectedEvent builds the greeting sent after a session is opened.
func NewConnectedEvent() Event {
	return Event{Name: EventConnected, Data: MessagePayload{Message: "Successfully connected to price updates"}}
}

// NewErrorEvent builds an unsolicited error event.
func NewErrorEvent(message string) Event {
	return Event{Name: EventError, Data: MessagePayload{Message: message}}
}

// NewPriceUpdateEvent builds a price-update event.
func NewPriceUpdateEvent(symbol string, price float64, at time.Time) Event {
	return Event{Name: EventPriceUpdate, Data: PriceUpdate{Symbol: symbol, Price: price, Timestamp: at.UTC()}}
}
