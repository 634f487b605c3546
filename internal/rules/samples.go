package rules

// SampleBranches are the branch names the test-rules command checks the
// configured rules against.
func SampleBranches() []string {
	return []string{
		"main",
		"master",
		"release/v1.0",
		"hotfix/bug-123",
		"feature/new-feature",
		"develop",
		"other-branch",
	}
}
