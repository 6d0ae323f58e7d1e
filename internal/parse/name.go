package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	seqRe   = regexp.MustCompile(`-\s*(\d+)\s*$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// ParsedDeviceName holds the structured data parsed from a device's display name.
type ParsedDeviceName struct {
	Area string
	Seq  int
}

// DeviceName splits a device display name such as "朝阳区#望京-3" into its
// service area and sequence number. Names without a "-N" suffix get Seq 0.
func DeviceName(raw string) (ParsedDeviceName, error) {
	// '#' separates like a space so "东区#3" does not read as "东区3"
	s := strings.ReplaceAll(strings.TrimSpace(raw), "#", " ")
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))

	seq := 0
	if loc := seqRe.FindStringSubmatchIndex(s); loc != nil {
		if n, err := strconv.Atoi(s[loc[2]:loc[3]]); err == nil {
			seq = n
			s = strings.TrimSpace(s[:loc[0]])
		}
	}

	if s == "" {
		return ParsedDeviceName{}, fmt.Errorf("unable to parse area from device name: %q", raw)
	}
	return ParsedDeviceName{Area: s, Seq: seq}, nil
}
