package errors

import (
	"strings"
	"testing"
)

func TestConflictError_MessageNamesClashingSession(t *testing.T) {
	cases := []struct {
		resource string
	}{
		{"teacher"},
		{"room"},
		{"unknown"},
	}
	for _, tc := range cases {
		err := &ConflictError{
			Resource:  tc.resource,
			SessionID: "sess-abc",
			StartTime: "09:00",
			EndTime:   "11:00",
		}
		msg := err.Error()
		if !strings.Contains(msg, "sess-abc") {
			t.Errorf("resource=%s: 冲突提示应包含冲突会话 ID，实际=%s", tc.resource, msg)
		}
		if !strings.Contains(msg, "09:00") || !strings.Contains(msg, "11:00") {
			t.Errorf("resource=%s: 冲突提示应包含时间窗，实际=%s", tc.resource, msg)
		}
	}
}
