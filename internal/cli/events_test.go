package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEvents(t *testing.T) {
	body := strings.Join([]string{
		"event: connected",
		`data: {"clientId":"c1"}`,
		"",
		": keepalive",
		"",
		"event: user_reset",
		`data: {"type":"user_reset","name":"Anna"}`,
		"",
		"data: orphan",
		"",
		"event:registry_changed",
		"data:line one",
		"data: line two",
		"",
	}, "\n")

	var got []SSEEvent
	require.NoError(t, readEvents(strings.NewReader(body), func(e SSEEvent) {
		got = append(got, e)
	}))

	require.Len(t, got, 3)
	assert.Equal(t, "connected", got[0].Event)
	assert.Equal(t, "user_reset", got[1].Event)
	assert.JSONEq(t, `{"type":"user_reset","name":"Anna"}`, got[1].Data)
	assert.Equal(t, "registry_changed", got[2].Event)
	assert.Equal(t, "line one\nline two", got[2].Data)
}

func TestPrintEventText(t *testing.T) {
	at := time.Date(2024, 5, 15, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		event SSEEvent
		want  string
	}{
		{SSEEvent{Time: at, Event: "user_reset", Data: `{"name":"Anna"}`}, "[09:30:00] Anna was reset\n"},
		{SSEEvent{Time: at, Event: "registry_changed", Data: `{"name":""}`}, "[09:30:00] (unknown trainee) updated\n"},
		{SSEEvent{Time: at, Event: "connected", Data: "hello"}, "[09:30:00] connected\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		printEvent(&buf, tt.event, false)
		assert.Equal(t, tt.want, buf.String())
	}
}

func TestPrintEventJSON(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, SSEEvent{Event: "user_reset", Data: "{}"}, true)
	assert.Contains(t, buf.String(), `"event":"user_reset"`)
}
