package gcp

import (
	"encoding/base64"
	"testing"
)

func TestClientOptions(t *testing.T) {
	inline := `{"type":"service_account","project_id":"atmo"}`
	cases := map[string]int{
		"":     0,
		"   ":  0,
		inline: 1,
		base64.StdEncoding.EncodeToString([]byte(inline)): 1,
		"/etc/atmo/gcs.json":                              1,
	}
	for in, want := range cases {
		if got := len(clientOptions(in)); got != want {
			t.Errorf("clientOptions(%q): got %d options, want %d", in, got, want)
		}
	}
}
