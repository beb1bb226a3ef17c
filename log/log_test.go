//nolint:funlen // ok for tests
package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel).Named("sector")
	l.Debug("hidden")
	l.Info("boundaries", Float("d12", 1000), String("circuit", "monza"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"logger":"sector"`)
	assert.Contains(t, out, `"circuit":"monza"`)
}

func TestWithFilter(t *testing.T) {
	tests := []struct {
		name    string
		rules   string
		wantErr bool
		visible []string
		hidden  []string
	}{
		{
			name:    "only sector",
			rules:   "*:sector",
			visible: []string{"from sector"},
			hidden:  []string{"from compose"},
		},
		{
			name:    "warn and above for all",
			rules:   "warn+:*",
			visible: []string{"from compose warn"},
			hidden:  []string{"from sector", "from compose"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, err := WithFilter(tt.rules)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			var buf bytes.Buffer
			l := New(&buf, DebugLevel, opt)
			l.Named("sector").Info("from sector")
			l.Named("compose").Info("from compose")
			l.Named("compose").Warn("from compose warn")
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			joined := strings.Join(lines, "\n")
			for _, v := range tt.visible {
				assert.Contains(t, joined, v)
			}
			for _, h := range tt.hidden {
				for _, line := range lines {
					assert.NotContains(t, line, `"msg":"`+h+`"`)
				}
			}
		})
	}
}

func TestGetFromContext(t *testing.T) {
	assert.Same(t, Default(), GetFromContext(context.Background()))

	var buf bytes.Buffer
	l := New(&buf, InfoLevel)
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
