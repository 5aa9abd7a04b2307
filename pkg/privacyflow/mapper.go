package privacyflow

import (
	"bytes"
	"encoding/json"
)

// Item is one JSON object handed to the host.
type Item map[string]any

// Envelope fields holding list payloads.
const (
	FieldMessages = "messages"
	FieldContacts = "contacts"
)

// MapResponse extracts the items of a successful response. It never fails:
// missing or malformed envelopes map to an empty slice.
func MapResponse(op Operation, raw []byte) []Item {
	switch op {
	case OperationSendTextMessage:
		return []Item{mapObject(raw)}
	case OperationGetUnreadMessages, OperationPollMessages:
		return mapField(raw, FieldMessages)
	case OperationListContacts:
		return mapField(raw, FieldContacts)
	default:
		return []Item{mapObject(raw)}
	}
}

func mapObject(raw []byte) Item {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil || value == nil {
		return Item{}
	}

	return toItem(value, "data")
}

func mapField(raw []byte, field string) []Item {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return []Item{}
	}

	payload, ok := envelope[field]
	if !ok || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return []Item{}
	}

	var values []any
	if err := json.Unmarshal(payload, &values); err != nil {
		return []Item{}
	}

	items := make([]Item, 0, len(values))
	for _, value := range values {
		items = append(items, toItem(value, "value"))
	}

	return items
}

func toItem(value any, wrapKey string) Item {
	if obj, ok := value.(map[string]any); ok {
		return Item(obj)
	}

	return Item{wrapKey: value}
}
