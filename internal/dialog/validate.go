package dialog

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var yesNoRegexp = regexp.MustCompile(`(?i)^[yn]$`)

func isMenuKey(answer string, keys ...string) bool {
	return answer != "" && slices.Contains(keys, answer)
}

func isYesNo(answer string) bool { return yesNoRegexp.MatchString(answer) }

func isYes(answer string) bool { return strings.EqualFold(answer, "y") }

// parseDisplayIndex accepts an integer in [0, count].
func parseDisplayIndex(answer string, count int) (int, bool) {
	n, err := strconv.Atoi(answer)
	if err != nil || n < 0 || n > count {
		return 0, false
	}
	return n, true
}

// description returns the trimmed free text answer and whether it is usable.
func description(answer string) (string, bool) {
	d := strings.TrimSpace(answer)
	return d, d != ""
}
