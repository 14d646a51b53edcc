package logger

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestSetLogLevel(t *testing.T) {
	l := GetLogger()
	defer l.SetLevel(log.InfoLevel)

	l.SetLogLevel("debug")
	assert.Equal(t, log.DebugLevel, l.GetLevel())

	l.SetLogLevel("error")
	assert.Equal(t, log.ErrorLevel, l.GetLevel())

	l.SetLogLevel("nonsense")
	assert.Equal(t, log.InfoLevel, l.GetLevel())
}
