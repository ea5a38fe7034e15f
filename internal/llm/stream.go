package llm

import (
	"bufio"
	"encoding/json"
	"io"
	"sort"
	"strings"
)

// accumulate folds an SSE stream of chat-completion chunks into a single
// Completion. Content deltas are concatenated; tool-call fragments are merged
// by index. Lines that aren't valid chunk JSON are skipped, matching the
// upstream's occasional keep-alive noise.
func accumulate(r io.Reader) (*Completion, error) {
	var (
		content strings.Builder
		calls   = map[int]*ToolCall{}
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}
		var ck chunk
		if err := json.Unmarshal([]byte(data), &ck); err != nil {
			continue
		}
		if len(ck.Choices) == 0 {
			continue
		}
		delta := ck.Choices[0].Delta
		content.WriteString(delta.Content)
		for _, tc := range delta.ToolCalls {
			cur, ok := calls[tc.Index]
			if !ok {
				cur = &ToolCall{}
				calls[tc.Index] = cur
			}
			if tc.ID != "" {
				cur.ID = tc.ID
			}
			cur.Name += tc.Function.Name
			cur.Arguments += tc.Function.Arguments
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := &Completion{Content: content.String()}
	if len(calls) > 0 {
		idx := make([]int, 0, len(calls))
		for i := range calls {
			idx = append(idx, i)
		}
		sort.Ints(idx)
		for _, i := range idx {
			out.ToolCalls = append(out.ToolCalls, *calls[i])
		}
	}
	return out, nil
}
