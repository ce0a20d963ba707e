package asr

import "testing"

func TestIsSupportedFormat(t *testing.T) {
	cases := []struct {
		filename string
		want     bool
	}{
		{"video.mp4", true},
		{"VIDEO.MP4", true},
		{"clip.webm", true},
		{"audio.wav", true},
		{"audio.m4a", true},
		{"document.pdf", false},
		{"noextension", false},
	}

	for _, c := range cases {
		if got := IsSupportedFormat(c.filename); got != c.want {
			t.Errorf("IsSupportedFormat(%q) = %v, want %v", c.filename, got, c.want)
		}
	}
}
