package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateEnv(t *testing.T) {
	t.Setenv("CATSNAP_TEST_A", "set")
	t.Setenv("CATSNAP_TEST_B", "")

	assert.NoError(t, ValidateEnv([]string{"CATSNAP_TEST_A"}))

	err := ValidateEnv([]string{"CATSNAP_TEST_A", "CATSNAP_TEST_B", "CATSNAP_TEST_C"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CATSNAP_TEST_B")
	assert.Contains(t, err.Error(), "CATSNAP_TEST_C")
	assert.NotContains(t, err.Error(), "CATSNAP_TEST_A")
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("CATSNAP_TEST_SET", "value")

	assert.Equal(t, "value", GetEnvOrDefault("CATSNAP_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", GetEnvOrDefault("CATSNAP_TEST_UNSET", "fallback"))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("CATSNAP_TEST_DUR", "30s")
	t.Setenv("CATSNAP_TEST_BAD", "not-a-duration")

	assert.Equal(t, 30*time.Second, GetEnvDuration("CATSNAP_TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, GetEnvDuration("CATSNAP_TEST_BAD", time.Minute))
	assert.Equal(t, time.Minute, GetEnvDuration("CATSNAP_TEST_MISSING", time.Minute))
}
