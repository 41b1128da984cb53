package disc

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	allDigitsPattern = regexp.MustCompile(`^\d+$`)
	shortCodePattern = regexp.MustCompile(`^[A-Z0-9_]{1,4}$`)
	titleCaser       = cases.Title(language.Und)
)

// IsUnusableLabel returns true if the label says nothing about the content:
// generic authoring defaults, bare numbers and short codes.
func IsUnusableLabel(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return true
	}

	upper := strings.ToUpper(label)

	patterns := []string{
		"LOGICAL_VOLUME_ID", "VOLUME_ID", "DVD_VIDEO", "VIDEO_CD", "BLURAY", "BD_ROM",
		"UNTITLED", "UNKNOWN DISC", "VOLUME_", "VOLUME ID", "CDROM", "AUDIO_CD",
	}
	for _, pattern := range patterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}

	if allDigitsPattern.MatchString(label) {
		return true
	}
	return shortCodePattern.MatchString(upper)
}

// DisplayLabel turns a volume label such as "THE_THIRD_MAN" into an entry
// title ("The Third Man"). Unusable labels give "".
func DisplayLabel(label string) string {
	if IsUnusableLabel(label) {
		return ""
	}
	label = strings.TrimSpace(strings.ReplaceAll(label, "_", " "))
	label = strings.Join(strings.Fields(label), " ")
	if label == strings.ToUpper(label) {
		return titleCaser.String(strings.ToLower(label))
	}
	return label
}
