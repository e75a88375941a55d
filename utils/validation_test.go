package utils_test

import (
	"testing"
	"time"

	"leadtrack-backend/utils"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{
		"+8613800138000",
		"13800138000",
		"+1 (415) 555-2671",
		"415-555-2671",
	}
	for _, phone := range valid {
		assert.True(t, utils.ValidatePhone(phone), "expected %q to be valid", phone)
	}

	invalid := []string{
		"",
		"abc",
		"0123",
		"+",
	}
	for _, phone := range invalid {
		assert.False(t, utils.ValidatePhone(phone), "expected %q to be invalid", phone)
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 5, 8, 0, 1, 0, 0, time.UTC)

	// Day boundaries, not 24-hour windows
	assert.Equal(t, 7, utils.DaysBetween(start, end))
	assert.Equal(t, 0, utils.DaysBetween(end, end))
}
