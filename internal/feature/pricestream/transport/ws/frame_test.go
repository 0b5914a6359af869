package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         string
		wantErr     bool
		wantEvent   string
		wantID      string
		wantSymbols []string
	}{
		{
			name:        "success: subscribe with symbols",
			raw:         `{"event":"subscribe","id":"1","data":{"symbols":["BTC/USD","ETH/USD"]}}`,
			wantEvent:   "subscribe",
			wantID:      "1",
			wantSymbols: []string{"BTC/USD", "ETH/USD"},
		},
		{
			name:        "success: empty list is valid",
			raw:         `{"event":"unsubscribe","data":{"symbols":[]}}`,
			wantEvent:   "unsubscribe",
			wantSymbols: []string{},
		},
		{
			name:      "success: missing data yields nil symbols",
			raw:       `{"event":"subscribe"}`,
			wantEvent: "subscribe",
		},
		{
			name:      "success: symbols of wrong type yields nil symbols",
			raw:       `{"event":"subscribe","data":{"symbols":"BTC/USD"}}`,
			wantEvent: "subscribe",
		},
		{
			name:      "success: non-string elements yield nil symbols",
			raw:       `{"event":"subscribe","data":{"symbols":[1,2]}}`,
			wantEvent: "subscribe",
		},
		{
			name:      "success: null symbols yields nil symbols",
			raw:       `{"event":"subscribe","data":{"symbols":null}}`,
			wantEvent: "subscribe",
		},
		{
			name:    "failure: not json",
			raw:     `subscribe BTC/USD`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, err := decodeFrame([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEvent, req.Event)
			assert.Equal(t, tt.wantID, req.ID)
			if tt.wantSymbols == nil {
				assert.Nil(t, req.Symbols)
			} else {
				assert.Equal(t, tt.wantSymbols, req.Symbols)
			}
		})
	}
}
