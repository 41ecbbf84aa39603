package git

// BranchName is the short name of a local branch (e.g. "feature/x").
type BranchName string

// CommitID is a full commit hash.
type CommitID string

// Strings converts branch names to plain strings.
func Strings(names []BranchName) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = string(name)
	}
	return out
}

// BranchNames converts plain strings to branch names.
func BranchNames(names ...string) []BranchName {
	out := make([]BranchName, len(names))
	for i, name := range names {
		out[i] = BranchName(name)
	}
	return out
}
