package eventbus

import "encoding/json"

// Envelope is the serialised form of a bus delivery for out-of-process consumers
type Envelope struct {
	Topic   Topic `json:"topic"`
	Payload any   `json:"payload"`
}

// Encode renders a delivery as JSON
// It must run on the publishing thread since payloads may point at live entities
func Encode(topic Topic, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Topic: topic, Payload: payload})
}

// SubscribeAll registers handler on every topic in AllTopics and returns one function removing them all
func (b *Bus) SubscribeAll(handler func(topic Topic, payload any)) func() {
	unsubscribers := make([]func(), 0, len(AllTopics))
	for _, topic := range AllTopics {
		unsubscribers = append(unsubscribers, b.Subscribe(topic, func(payload any) {
			handler(topic, payload)
		}))
	}
	return func() {
		for _, fn := range unsubscribers {
			fn()
		}
	}
}
