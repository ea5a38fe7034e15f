package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulate_ContentOnly(t *testing.T) {
	stream := strings.Join([]string{
		`data: {"choices":[{"delta":{"content":"Hel"}}]}`,
		`data: {"choices":[{"delta":{"content":"lo!"}}]}`,
		`data: [DONE]`,
		"",
	}, "\n\n")

	out, err := accumulate(strings.NewReader(stream))
	require.NoError(t, err)
	assert.Equal(t, "Hello!", out.Content)
	assert.Empty(t, out.ToolCalls)
}

func TestAccumulate_ToolCallFragments(t *testing.T) {
	stream := strings.Join([]string{
		`data: {"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","function":{"name":"create_"}}]}}]}`,
		`data: {"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"name":"event","arguments":"{\"title\":"}}]}}]}`,
		`data: {"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"Dentist\"}"}}]}}]}`,
		`data: [DONE]`,
		"",
	}, "\n\n")

	out, err := accumulate(strings.NewReader(stream))
	require.NoError(t, err)
	require.Len(t, out.ToolCalls, 1)
	tc := out.ToolCalls[0]
	assert.Equal(t, "call_1", tc.ID)
	assert.Equal(t, "create_event", tc.Name)
	assert.JSONEq(t, `{"title":"Dentist"}`, tc.Arguments)
}

func TestAccumulate_MultipleCallsOrderedByIndex(t *testing.T) {
	stream := strings.Join([]string{
		`data: {"choices":[{"delta":{"tool_calls":[{"index":1,"id":"b","function":{"name":"second","arguments":"{}"}}]}}]}`,
		`data: {"choices":[{"delta":{"tool_calls":[{"index":0,"id":"a","function":{"name":"first","arguments":"{}"}}]}}]}`,
		`data: [DONE]`,
		"",
	}, "\n\n")

	out, err := accumulate(strings.NewReader(stream))
	require.NoError(t, err)
	require.Len(t, out.ToolCalls, 2)
	assert.Equal(t, "first", out.ToolCalls[0].Name)
	assert.Equal(t, "second", out.ToolCalls[1].Name)
}

func TestAccumulate_SkipsMalformedLines(t *testing.T) {
	stream := strings.Join([]string{
		`: keep-alive`,
		`data: not-json`,
		`data: {"choices":[{"delta":{"content":"ok"}}]}`,
		`data: {"choices":[]}`,
		`data: [DONE]`,
		`data: {"choices":[{"delta":{"content":"after done, ignored"}}]}`,
		"",
	}, "\n\n")

	out, err := accumulate(strings.NewReader(stream))
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Content)
}
