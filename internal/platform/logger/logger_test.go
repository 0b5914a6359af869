package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetReportCaller(false)
		logrus.SetFormatter(&logrus.TextFormatter{})
		logrus.SetOutput(os.Stderr)
	})
}

func TestSetup_JSON(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	require.NoError(t, Setup(Options{Level: "debug", JSON: true, Output: &buf}))

	logrus.WithField("session_id", "abc").Debug("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "abc", line["session_id"])
	assert.Equal(t, "debug", line["level"])
}

func TestSetup_Levels(t *testing.T) {
	restore(t)

	tests := []struct {
		name    string
		level   string
		want    logrus.Level
		wantErr bool
	}{
		{name: "success: default is info", level: "", want: logrus.InfoLevel},
		{name: "success: warn", level: "warn", want: logrus.WarnLevel},
		{name: "failure: unknown level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Setup(Options{Level: tt.level, Output: &bytes.Buffer{}})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, logrus.GetLevel())
		})
	}
}
