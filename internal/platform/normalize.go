package platform

import "strings"

const (
	maxTitleRunes       = 50
	truncatedTitleRunes = 47
)

var titleSuffixes = []string{
	" - Google Chrome",
	" - Mozilla Firefox",
	" - Microsoft Edge",
	" - Visual Studio Code",
	" - Notepad++",
}

// NormalizeIdentity builds a stable app identity from a window title and
// process name.
func NormalizeIdentity(title, processName string) string {
	title = strings.TrimSpace(title)
	name := strings.TrimSpace(processName)
	if strings.HasSuffix(strings.ToLower(name), ".exe") {
		name = name[:len(name)-len(".exe")]
	}

	for _, suffix := range titleSuffixes {
		if strings.HasSuffix(title, suffix) {
			title = strings.TrimSpace(strings.TrimSuffix(title, suffix))
			break
		}
	}
	if runes := []rune(title); len(runes) > maxTitleRunes {
		title = string(runes[:truncatedTitleRunes]) + "..."
	}

	switch {
	case name == "" && title == "":
		return unknownProcess
	case name == "":
		return title
	case title == "" || strings.EqualFold(title, name):
		return name
	default:
		return name + " (" + title + ")"
	}
}
