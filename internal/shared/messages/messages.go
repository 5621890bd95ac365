package messages

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

type MessageText struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Format substitutes {key} placeholders in the body.
func (m MessageText) Format(values map[string]string) MessageText {
	body := m.Body
	for k, v := range values {
		body = strings.ReplaceAll(body, "{"+k+"}", v)
	}
	return MessageText{Title: m.Title, Body: body}
}

type Messages struct {
	BankLinked       MessageText `json:"bank_linked"`
	TransferSent     MessageText `json:"transfer_sent"`
	TransferReceived MessageText `json:"transfer_received"`
}

func Default() *Messages {
	return &Messages{
		BankLinked:       MessageText{Title: "Bank connected", Body: "{bank} is now linked to your account."},
		TransferSent:     MessageText{Title: "Transfer sent", Body: "You sent {amount} to {recipient}."},
		TransferReceived: MessageText{Title: "Money received", Body: "You received {amount}."},
	}
}

var (
	loaded   Messages
	loadOnce sync.Once
	loadErr  error
)

// Load reads the notifications JSON file and caches the result. An empty
// path returns the built-in texts. Fields missing from the file fall back
// to the defaults.
func Load(path string) (*Messages, error) {
	if path == "" {
		return Default(), nil
	}

	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read messages file: %w", err)
			return
		}
		loaded = *Default()
		if err := json.Unmarshal(data, &loaded); err != nil {
			loadErr = fmt.Errorf("failed to parse messages file: %w", err)
		}
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return &loaded, nil
}
