package lvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilter(t *testing.T) {
	devices := []string{"/dev/mapper/a", "/dev/mapper/b"}
	expected := `["a|^/dev/mapper/a$|^/dev/mapper/b$|", "r|.*|"]`
	assert.Equal(t, expected, BuildFilter(devices))
}

func TestBuildFilterQuoting(t *testing.T) {
	// udev escapes special characters in device names as \xNN; the
	// backslashes must be doubled inside the filter regex.
	devices := []string{`\x20\x24\x7c\x22\x28`}
	expected := `["a|^\\x20\\x24\\x7c\\x22\\x28$|", "r|.*|"]`
	assert.Equal(t, expected, BuildFilter(devices))
}

func TestBuildFilterNoDevices(t *testing.T) {
	// This special case is possible on a host without any multipath
	// device. LVM commands will succeed, returning no info.
	assert.Equal(t, `["r|.*|"]`, BuildFilter(nil))
	assert.Equal(t, `["r|.*|"]`, BuildFilter([]string{}))
}

func TestBuildFilterOrderInvariant(t *testing.T) {
	permutations := [][]string{
		{"/dev/a", "/dev/b", "/dev/c"},
		{"/dev/c", "/dev/a", "/dev/b"},
		{"/dev/b", "/dev/c", "/dev/a"},
	}

	expected := `["a|^/dev/a$|^/dev/b$|^/dev/c$|", "r|.*|"]`
	for _, devices := range permutations {
		assert.Equal(t, expected, BuildFilter(devices))
	}
}

func TestBuildFilterDeduplicates(t *testing.T) {
	devices := []string{"/dev/a", "/dev/a", " /dev/b ", "", "/dev/b"}
	expected := `["a|^/dev/a$|^/dev/b$|", "r|.*|"]`
	assert.Equal(t, expected, BuildFilter(devices))
}

func TestNormalizeDevices(t *testing.T) {
	tests := []struct {
		name     string
		devices  []string
		expected []string
	}{
		{
			name:     "already normalized",
			devices:  []string{"/dev/a", "/dev/b"},
			expected: []string{"/dev/a", "/dev/b"},
		},
		{
			name:     "unsorted with duplicates",
			devices:  []string{"/dev/b", "/dev/a", "/dev/b"},
			expected: []string{"/dev/a", "/dev/b"},
		},
		{
			name:     "whitespace and empty entries",
			devices:  []string{" /dev/a ", "", "  "},
			expected: []string{"/dev/a"},
		},
		{
			name:     "empty input",
			devices:  nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDevices(tt.devices))
		})
	}
}
