package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvVars() {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "LOG_FORMAT",
		"SHIFTPLAN_SOLVER_TIME_LIMIT_SECONDS", "SHIFTPLAN_SOLVER_NUM_WORKERS",
		"SHIFTPLAN_SOLVER_TYPE", "SHIFTPLAN_AUTO_GENERATE_DEMAND", "SHIFTPLAN_SLOT_MINUTES",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30.0, cfg.SolverTimeLimitSeconds)
	assert.Equal(t, 0, cfg.SolverNumWorkers)
	assert.Equal(t, "hybrid", cfg.SolverType)
	assert.True(t, cfg.AutoGenerateDemand)
	assert.Equal(t, 15, cfg.SlotMinutes)
}

func TestLoad_WithCustomEnvVars(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SHIFTPLAN_SOLVER_TIME_LIMIT_SECONDS", "5.5")
	os.Setenv("SHIFTPLAN_SOLVER_NUM_WORKERS", "4")
	os.Setenv("SHIFTPLAN_SOLVER_TYPE", "cpsat")
	os.Setenv("SHIFTPLAN_AUTO_GENERATE_DEMAND", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5.5, cfg.SolverTimeLimitSeconds)
	assert.Equal(t, 4, cfg.SolverNumWorkers)
	assert.Equal(t, "cpsat", cfg.SolverType)
	assert.False(t, cfg.AutoGenerateDemand)
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		appEnv   string
		expected bool
	}{
		{"development", true},
		{"production", false},
		{"staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.appEnv, func(t *testing.T) {
			cfg := &Config{AppEnv: tt.appEnv}
			assert.Equal(t, tt.expected, cfg.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		appEnv   string
		expected bool
	}{
		{"development", false},
		{"production", true},
		{"staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.appEnv, func(t *testing.T) {
			cfg := &Config{AppEnv: tt.appEnv}
			assert.Equal(t, tt.expected, cfg.IsProduction())
		})
	}
}

func TestGetEnv(t *testing.T) {
	value := getEnv("NON_EXISTENT_VAR", "default")
	assert.Equal(t, "default", value)

	os.Setenv("TEST_VAR", "custom")
	defer os.Unsetenv("TEST_VAR")
	value = getEnv("TEST_VAR", "default")
	assert.Equal(t, "custom", value)
}

func TestGetIntEnv(t *testing.T) {
	value := getIntEnv("NON_EXISTENT_INT", 42)
	assert.Equal(t, 42, value)

	os.Setenv("TEST_INT", "100")
	defer os.Unsetenv("TEST_INT")
	value = getIntEnv("TEST_INT", 42)
	assert.Equal(t, 100, value)

	os.Setenv("TEST_INVALID_INT", "not-a-number")
	defer os.Unsetenv("TEST_INVALID_INT")
	value = getIntEnv("TEST_INVALID_INT", 42)
	assert.Equal(t, 42, value)
}

func TestGetFloatEnv(t *testing.T) {
	value := getFloatEnv("NON_EXISTENT_FLOAT", 1.5)
	assert.Equal(t, 1.5, value)

	os.Setenv("TEST_FLOAT", "2.25")
	defer os.Unsetenv("TEST_FLOAT")
	value = getFloatEnv("TEST_FLOAT", 1.5)
	assert.Equal(t, 2.25, value)
}

func TestGetBoolEnv(t *testing.T) {
	value := getBoolEnv("NON_EXISTENT_BOOL", true)
	assert.True(t, value)

	trueValues := []string{"true", "1", "True", "TRUE"}
	for _, tv := range trueValues {
		os.Setenv("TEST_BOOL", tv)
		value = getBoolEnv("TEST_BOOL", false)
		assert.True(t, value, "expected true for value: %s", tv)
	}

	falseValues := []string{"false", "0", "False", "FALSE"}
	for _, fv := range falseValues {
		os.Setenv("TEST_BOOL", fv)
		value = getBoolEnv("TEST_BOOL", true)
		assert.False(t, value, "expected false for value: %s", fv)
	}
	os.Unsetenv("TEST_BOOL")
}
