package presence

import (
	"testing"
	"time"
)

func TestSessionSeconds(t *testing.T) {

	end := time.Now().UTC()

	tests := []struct {
		name  string
		start time.Time
		want  int64
		ok    bool
	}{
		{name: "five seconds", start: end.Add(-5000 * time.Millisecond), want: 5, ok: true},
		{name: "floors partial seconds", start: end.Add(-5900 * time.Millisecond), want: 5, ok: true},
		{name: "zero discarded", start: end, ok: false},
		{name: "negative discarded", start: end.Add(10 * time.Second), ok: false},
		{name: "over a day discarded", start: end.Add(-90000 * time.Second), ok: false},
		{name: "just under a day kept", start: end.Add(-86399 * time.Second), want: 86399, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SessionSeconds(tt.start, end)
			if ok != tt.ok {
				t.Fatalf("SessionSeconds ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("SessionSeconds = %d, want %d", got, tt.want)
			}
		})
	}

}
