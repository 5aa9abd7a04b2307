package privacyflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapResponse(t *testing.T) {
	testCases := []struct {
		name     string
		op       Operation
		raw      string
		expected []Item
	}{
		{
			name:     "send echoes the response object",
			op:       OperationSendTextMessage,
			raw:      `{"id":"msg-1","status":"sent"}`,
			expected: []Item{{"id": "msg-1", "status": "sent"}},
		},
		{
			name:     "send wraps non object responses",
			op:       OperationSendTextMessage,
			raw:      `"accepted"`,
			expected: []Item{{"data": "accepted"}},
		},
		{
			name:     "send with empty body",
			op:       OperationSendTextMessage,
			raw:      ``,
			expected: []Item{{}},
		},
		{
			name:     "unread messages",
			op:       OperationGetUnreadMessages,
			raw:      `{"messages":[{"id":1},{"id":2}]}`,
			expected: []Item{{"id": float64(1)}, {"id": float64(2)}},
		},
		{
			name:     "unread wraps scalar elements",
			op:       OperationGetUnreadMessages,
			raw:      `{"messages":["a"]}`,
			expected: []Item{{"value": "a"}},
		},
		{
			name:     "contacts missing field",
			op:       OperationListContacts,
			raw:      `{"messages":[{"id":1}]}`,
			expected: []Item{},
		},
		{
			name:     "contacts field is not an array",
			op:       OperationListContacts,
			raw:      `{"contacts":{"id":1}}`,
			expected: []Item{},
		},
		{
			name:     "malformed envelope",
			op:       OperationListContacts,
			raw:      `<html>oops</html>`,
			expected: []Item{},
		},
		{
			name:     "envelope is an array",
			op:       OperationPollMessages,
			raw:      `[{"id":1}]`,
			expected: []Item{},
		},
		{
			name:     "poll messages",
			op:       OperationPollMessages,
			raw:      `{"messages":[{"id":"m1"}],"cursor":"ignored"}`,
			expected: []Item{{"id": "m1"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tc.expected, MapResponse(tc.op, []byte(tc.raw)))
			})
		})
	}
}
