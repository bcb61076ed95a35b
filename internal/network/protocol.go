package network

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/amalg/bomber-arcade/internal/game"
)

// MsgType identifies the type of feed message.
type MsgType string

const (
	MsgWatch   MsgType = "watch"
	MsgWelcome MsgType = "welcome"
	MsgFrame   MsgType = "frame"
	MsgError   MsgType = "error"
)

// maxMessageSize bounds a single decoded message.
const maxMessageSize = 1 << 20

// Envelope wraps all messages with a type discriminator for deserialization.
type Envelope struct {
	Type    MsgType         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// WatchMsg is sent by a spectator to subscribe.
type WatchMsg struct {
	Name string `json:"name"`
}

// WelcomeMsg answers a WatchMsg.
type WelcomeMsg struct {
	WatcherID string      `json:"watcher_id"`
	Player    string      `json:"player"`
	Config    game.Config `json:"config"`
}

// FrameMsg carries one published frame.
type FrameMsg struct {
	Frame game.Frame `json:"frame"`
}

// ErrorMsg notifies a spectator of an error.
type ErrorMsg struct {
	Message string `json:"message"`
}

// Encode serializes a message and writes it to the writer.
// Format: [4-byte big-endian length][JSON body]
func Encode(w io.Writer, msgType MsgType, payload interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	body, err := json.Marshal(Envelope{Type: msgType, Payload: payloadBytes})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if len(body) > maxMessageSize {
		return fmt.Errorf("message too large: %d bytes", len(body))
	}

	// Header and body in one write so concurrent frames never interleave
	buf := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(buf, uint32(len(body)))
	copy(buf[4:], body)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	return nil
}

// Decode reads a length-prefixed JSON message from the reader.
func Decode(r io.Reader) (*Envelope, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}

	if length > maxMessageSize {
		return nil, fmt.Errorf("message too large: %d bytes", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	return &env, nil
}

// DecodePayload unmarshals the payload from an envelope into the target struct.
func DecodePayload(env *Envelope, target interface{}) error {
	if err := json.Unmarshal(env.Payload, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", env.Type, err)
	}
	return nil
}
