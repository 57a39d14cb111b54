package gcp

import (
	"context"
	"testing"

	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

func TestResolveMode(t *testing.T) {
	cases := []struct {
		name    string
		cfg     OutputStoreConfig
		want    ObjectStorageMode
		wantErr bool
	}{
		{"default", OutputStoreConfig{}, ObjectStorageModeGCS, false},
		{"emulator fallback", OutputStoreConfig{EmulatorHost: "http://fake-gcs:4443"}, ObjectStorageModeGCSEmulator, false},
		{"explicit gcs wins", OutputStoreConfig{Mode: "gcs", EmulatorHost: "http://fake-gcs:4443"}, ObjectStorageModeGCS, false},
		{"emulator without host", OutputStoreConfig{Mode: "gcs_emulator"}, "", true},
		{"bad host", OutputStoreConfig{Mode: "gcs_emulator", EmulatorHost: "fake-gcs"}, "", true},
		{"bad mode", OutputStoreConfig{Mode: "s3"}, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.cfg.ResolveMode()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got mode %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveMode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("mode: want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	if got := publicURL(ObjectStorageModeGCS, "", "", "b", "outputs/x.pdf"); got != "https://storage.googleapis.com/b/outputs/x.pdf" {
		t.Fatalf("gcs url: %s", got)
	}
	if got := publicURL(ObjectStorageModeGCS, "https://cdn.example.com", "", "b", "x.pdf"); got != "https://cdn.example.com/b/x.pdf" {
		t.Fatalf("cdn url: %s", got)
	}
	want := "http://localhost:4443/storage/v1/b/b/o/outputs%2Fx.pdf?alt=media"
	if got := publicURL(ObjectStorageModeGCSEmulator, "", "http://localhost:4443", "b", "outputs/x.pdf"); got != want {
		t.Fatalf("emulator url: want=%s got=%s", want, got)
	}
}

func TestNewOutputStoreWithoutBucketIsDisabled(t *testing.T) {
	s, err := NewOutputStore(context.Background(), logger.Nop(), OutputStoreConfig{})
	if err != nil || s != nil {
		t.Fatalf("want (nil, nil), got (%v, %v)", s, err)
	}
}
