package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewSetsLevel(t *testing.T) {
	log := New("debug", "development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	log := New("loud", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewProductionUsesJSONFormatter(t *testing.T) {
	log := New("info", "production")
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}
