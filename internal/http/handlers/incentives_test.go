package handlers

import "testing"

func TestReasonPayloadText(t *testing.T) {
	cases := []struct {
		reason string
		note   string
		want   string
	}{
		{"wrong driver", "", "wrong driver"},
		{"", "distance looks off", "distance looks off"},
		{"odo mismatch", "checkout reading below checkin", "[odo mismatch] checkout reading below checkin"},
		{"  spaced  ", "  detail  ", "[spaced] detail"},
		{"", "", ""},
	}
	for _, c := range cases {
		got := reasonPayload{Reason: c.reason, Note: c.note}.text()
		if got != c.want {
			t.Errorf("text(%q, %q) = %q, want %q", c.reason, c.note, got, c.want)
		}
	}
}
