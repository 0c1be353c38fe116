package middleware

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateUTF8KeepsRuneBoundary(t *testing.T) {
	// "偵" 佔 3 bytes，切在第 4 byte 時要退回到 3
	s := "偵測紀錄"
	if got := truncateUTF8(s, 4); got != "偵" {
		t.Errorf("truncateUTF8(%q, 4) = %q", s, got)
	}
	if got := truncateUTF8(s, 100); got != s {
		t.Errorf("short string changed: %q", got)
	}
}

func TestToSafeStringTruncatesValidUTF8(t *testing.T) {
	// 讓第 8000 byte 落在多位元組字元中間
	s := "a" + strings.Repeat("錯", 4000)
	got := toSafeString(s)
	if !utf8.ValidString(got) {
		t.Fatal("truncated message is not valid UTF-8")
	}
	if !strings.HasSuffix(got, "…") || len(got) > 8000+len("…") {
		t.Errorf("len = %d", len(got))
	}
}

func TestToSafeStackTruncatesValidUTF8(t *testing.T) {
	b := []byte("ab" + strings.Repeat("堆", 8000))
	if got := toSafeStack(b); !utf8.ValidString(got) {
		t.Fatal("truncated stack is not valid UTF-8")
	}
}

func TestToSafeStringEncodesInvalidBytes(t *testing.T) {
	if got := toSafeString("\xff\xfe"); !strings.HasPrefix(got, "b64:") {
		t.Errorf("toSafeString = %q", got)
	}
}
