package xlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xoui/pkg/observability/xlog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    xlog.Level
		wantErr bool
	}{
		{"debug", xlog.LevelDebug, false},
		{" INFO ", xlog.LevelInfo, false},
		{"", xlog.LevelInfo, false},
		{"warning", xlog.LevelWarn, false},
		{"Warn", xlog.LevelWarn, false},
		{"error", xlog.LevelError, false},
		{"trace", xlog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := xlog.ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_Text(t *testing.T) {
	assert.Equal(t, "WARN", xlog.LevelWarn.String())

	var l xlog.Level
	require.NoError(t, l.UnmarshalText([]byte("debug")))
	assert.Equal(t, xlog.LevelDebug, l)
	assert.Error(t, l.UnmarshalText([]byte("loud")))
}
