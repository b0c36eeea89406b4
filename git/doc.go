// Package git provides the version-control operations the commit workflow
// depends on: reading the staged diff and file list, inspecting branch
// state and history, creating branches, and committing.
//
// Core types:
//   - Context: repository handle over the git CLI
//   - CommandRunner: seam for executing git commands (mockable in tests)
//
// Example usage:
//
//	gitCtx, err := git.NewContext(".")
//	diff, err := gitCtx.DiffStaged()
//	err = gitCtx.Commit("feat(auth): add refresh token")
package git
