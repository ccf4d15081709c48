package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain object", in: `{"name":"A"}`, want: `{"name":"A"}`},
		{name: "surrounding whitespace", in: "\n  {\"name\":\"A\"}  \n", want: `{"name":"A"}`},
		{name: "code fence", in: "```json\n{\"name\":\"A\"}\n```", want: `{"name":"A"}`},
		{name: "prose around", in: "Here you go: {\"a\":{\"b\":1}} Enjoy!", want: `{"a":{"b":1}}`},
		{name: "no object", in: "not json at all", want: "not json at all"},
		{name: "unbalanced", in: "} oops {", want: "} oops {"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.in))
		})
	}
}
