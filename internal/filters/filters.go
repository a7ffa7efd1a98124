package filters

import "strings"

var refPrefixes = []string{"refs/heads/", "refs/tags/", "refs/remotes/"}

// BranchNameFromRef turns "refs/heads/main" into "main".
func BranchNameFromRef(ref string) string {
	for _, prefix := range refPrefixes {
		if strings.HasPrefix(ref, prefix) {
			return strings.TrimPrefix(ref, prefix)
		}
	}
	return ref
}

// CommitTitle returns the first non-empty line of a commit message.
func CommitTitle(message string) string {
	for _, line := range strings.Split(message, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func ShortSHA(sha string) string {
	if len(sha) <= 7 {
		return sha
	}
	return sha[:7]
}
