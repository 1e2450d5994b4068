package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Setenv("COVERAGE_TEST_STR", "hello")

	require.Equal(t, "hello", Get("COVERAGE_TEST_STR", "fallback"))
	require.Equal(t, "fallback", Get("COVERAGE_TEST_STR_MISSING", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("COVERAGE_TEST_INT", "42")
	t.Setenv("COVERAGE_TEST_INT_BAD", "not-a-number")

	require.Equal(t, 42, GetInt("COVERAGE_TEST_INT", 7))
	require.Equal(t, 7, GetInt("COVERAGE_TEST_INT_BAD", 7))
	require.Equal(t, 7, GetInt("COVERAGE_TEST_INT_MISSING", 7))
}
