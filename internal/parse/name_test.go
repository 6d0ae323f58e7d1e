package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceName(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  ParsedDeviceName
		expectErr bool
	}{
		{
			name:     "Area with sequence",
			raw:      "朝阳区望京-3",
			expected: ParsedDeviceName{Area: "朝阳区望京", Seq: 3},
		},
		{
			name:     "Hash as separator",
			raw:      "海淀区#中关村-12",
			expected: ParsedDeviceName{Area: "海淀区 中关村", Seq: 12},
		},
		{
			name:     "No sequence",
			raw:      "东城区社区站",
			expected: ParsedDeviceName{Area: "东城区社区站", Seq: 0},
		},
		{
			name:     "Collapses whitespace",
			raw:      "  西城区   金融街 - 7 ",
			expected: ParsedDeviceName{Area: "西城区 金融街", Seq: 7},
		},
		{
			name:      "Only a sequence",
			raw:       "-4",
			expectErr: true,
		},
		{
			name:      "Empty",
			raw:       "  ",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := DeviceName(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, parsed)
		})
	}
}
