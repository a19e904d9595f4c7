// Package pathutils resolves user-supplied directory arguments.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	homeShortcutConstant          = "~"
	forwardSlashSeparatorConstant = "/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// WorkingDirectoryResolver turns a working directory argument into an absolute, cleaned path.
// A leading "~" expands to the user's home directory and relative paths resolve against a base directory.
type WorkingDirectoryResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	homeDirectoryOnce     sync.Once
}

// NewWorkingDirectoryResolver constructs a resolver using the operating system home lookup.
func NewWorkingDirectoryResolver() *WorkingDirectoryResolver {
	return NewWorkingDirectoryResolverWithProvider(os.UserHomeDir)
}

// NewWorkingDirectoryResolverWithProvider constructs a resolver with a custom home directory provider.
func NewWorkingDirectoryResolverWithProvider(provider HomeDirectoryProvider) *WorkingDirectoryResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &WorkingDirectoryResolver{homeDirectoryProvider: provider}
}

// ExpandHome replaces a leading "~" or "~/" with the home directory. Other paths, including "~user", are returned as is.
func (resolver *WorkingDirectoryResolver) ExpandHome(candidatePath string) string {
	if resolver == nil || !strings.HasPrefix(candidatePath, homeShortcutConstant) {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, homeShortcutConstant)
	if len(remainder) > 0 && !strings.HasPrefix(remainder, forwardSlashSeparatorConstant) && !strings.HasPrefix(remainder, string(os.PathSeparator)) {
		return candidatePath
	}

	homeDirectory := resolver.lookupHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(homeDirectory, remainder)
}

// Resolve expands candidatePath and anchors it to baseDirectory when relative. An empty candidate yields an empty result,
// meaning the caller's own working directory is inherited.
func (resolver *WorkingDirectoryResolver) Resolve(candidatePath string, baseDirectory string) string {
	trimmedCandidate := strings.TrimSpace(candidatePath)
	if len(trimmedCandidate) == 0 {
		return ""
	}

	expandedCandidate := resolver.ExpandHome(trimmedCandidate)
	if filepath.IsAbs(expandedCandidate) || len(baseDirectory) == 0 {
		return filepath.Clean(expandedCandidate)
	}
	return filepath.Join(baseDirectory, expandedCandidate)
}

func (resolver *WorkingDirectoryResolver) lookupHomeDirectory() string {
	resolver.homeDirectoryOnce.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil {
		return ""
	}
	return resolver.homeDirectory
}
