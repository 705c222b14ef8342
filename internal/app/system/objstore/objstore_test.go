package objstore

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestEventPhotoKey(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://s3.amazonaws.com/bucket/events/photos/abc.jpg", "events/photos/abc.jpg"},
		{"https://cdn.example.com/a/b/c.png?v=2", "events/photos/c.png"},
		{"plain.png", "events/photos/plain.png"},
	}
	for _, tt := range tests {
		if got := EventPhotoKey(tt.url); got != tt.want {
			t.Errorf("EventPhotoKey(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestPublicURL(t *testing.T) {
	got := PublicURL("gh-bucket", TeamAvatarKey("1700000000000abcde.png"))
	want := "https://s3.amazonaws.com/gh-bucket/teams/avatars/1700000000000abcde.png"
	if got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("b")

	if err := m.Put(ctx, "k", strings.NewReader("data"), &PutOptions{ContentType: "image/png"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	b, ct, ok := m.Get("k")
	if !ok || string(b) != "data" || ct != "image/png" {
		t.Errorf("Get: %q %q %v", b, ct, ok)
	}

	m.FailDelete = map[string]error{"k": errors.New("boom")}
	if err := m.Delete(ctx, "k"); err == nil {
		t.Error("expected injected delete error")
	}
	m.FailDelete = nil
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if m.Has("k") {
		t.Error("expected key removed")
	}
}

func TestNewS3_RequiresBucket(t *testing.T) {
	if _, err := NewS3(context.Background(), Config{}); err == nil {
		t.Error("expected error for empty bucket")
	}
}
