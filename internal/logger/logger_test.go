package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logging.DEBUG, ParseLevel("debug"))
	assert.Equal(t, logging.WARNING, ParseLevel(" WARNING "))
	assert.Equal(t, logging.ERROR, ParseLevel("Error"))
	assert.Equal(t, logging.INFO, ParseLevel(""))
	assert.Equal(t, logging.INFO, ParseLevel("verbose"))
}

func TestInitLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(&buf, logging.WARNING)
	defer InitLogger(os.Stderr, logging.INFO)

	Infof("order %s created", "o1")
	assert.Empty(t, buf.String())

	Warningf("cache miss for %s", "parts")
	assert.Contains(t, buf.String(), "WARN - cache miss for parts")

	Error("store unavailable")
	assert.Contains(t, buf.String(), "ERRO - store unavailable")
}
