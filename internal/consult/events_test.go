package consult

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, input string) []Event {
	t.Helper()
	r := NewReader(strings.NewReader(input))
	var events []Event
	for r.Next() {
		events = append(events, r.Event())
	}
	require.NoError(t, r.Err())
	return events
}

func TestReader_Frames(t *testing.T) {
	input := ": keep-alive\n" +
		"data: Drink\n\n" +
		"id: 2\nevent: delta\ndata: more\ndata: water\n\n" +
		"retry: 3000\r\ndata:no-space\r\n\r\n" +
		"event: ignored-without-data\n\n" +
		"event: done\ndata: [DONE]\n\n"

	events := readAll(t, input)
	require.Len(t, events, 4)

	assert.Equal(t, Event{Event: "message", Data: "Drink"}, events[0])
	assert.Equal(t, Event{ID: "2", Event: "delta", Data: "more\nwater"}, events[1])
	assert.Equal(t, Event{ID: "2", Event: "message", Data: "no-space", Retry: 3000}, events[2])
	assert.True(t, events[3].Done())
}

func TestReader_DispatchesTrailingEventAtEOF(t *testing.T) {
	events := readAll(t, "data: partial")
	require.Len(t, events, 1)
	assert.Equal(t, "partial", events[0].Data)
}

func TestReader_EmptyDataLine(t *testing.T) {
	events := readAll(t, "data\n\n")
	require.Len(t, events, 1)
	assert.Equal(t, "", events[0].Data)
}

func TestEvent_Done(t *testing.T) {
	assert.True(t, Event{Event: "end"}.Done())
	assert.True(t, Event{Event: "message", Data: " [DONE] "}.Done())
	assert.False(t, Event{Event: "message", Data: "done"}.Done())
}
