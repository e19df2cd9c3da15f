package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level       string
		wantDebugOn bool
		wantWarnOn  bool
	}{
		{level: "debug", wantDebugOn: true, wantWarnOn: true},
		{level: "info", wantDebugOn: false, wantWarnOn: true},
		{level: "WARN", wantDebugOn: false, wantWarnOn: true},
		{level: "error", wantDebugOn: false, wantWarnOn: false},
		{level: "bogus", wantDebugOn: false, wantWarnOn: true},
		{level: "  warning  ", wantDebugOn: false, wantWarnOn: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := NewLogger(tt.level)
			require.NotNil(t, log)

			ctx := context.Background()
			assert.Equal(t, tt.wantDebugOn, log.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.wantWarnOn, log.Enabled(ctx, slog.LevelWarn))
		})
	}
}
