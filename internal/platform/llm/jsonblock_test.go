package llm

import "testing"

func TestExtractJSONBlock(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"nested with prose", `prefix {"a":{"b":1}} suffix`, `{"a":{"b":1}}`},
		{"braces in strings", "```json\n{\"s\":\"a } b {\",\"n\":2}\n```", `{"s":"a } b {","n":2}`},
		{"escaped quote", `{"s":"say \"}\""}`, `{"s":"say \"}\""}`},
		{"skips unclosed opener", `note { not json {"ok":true}`, `{"ok":true}`},
		{"first of two", `{"a":1} {"b":2}`, `{"a":1}`},
		{"none", "no json here", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSONBlock(tc.in); got != tc.want {
				t.Fatalf("ExtractJSONBlock(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
