package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/shellrun/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/runner"

func TestWorkingDirectoryResolverResolve(testInstance *testing.T) {
	resolver := pathutils.NewWorkingDirectoryResolverWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name          string
		candidatePath string
		baseDirectory string
		expectedPath  string
	}{
		{name: "empty_inherits", candidatePath: "  ", baseDirectory: "/srv", expectedPath: ""},
		{name: "home_only", candidatePath: "~", baseDirectory: "/srv", expectedPath: testHomeDirectoryConstant},
		{name: "home_relative", candidatePath: "~/projects/app", baseDirectory: "/srv", expectedPath: filepath.Join(testHomeDirectoryConstant, "projects", "app")},
		{name: "other_user_untouched", candidatePath: "~builder/app", baseDirectory: "/srv", expectedPath: filepath.Join("/srv", "~builder", "app")},
		{name: "absolute_cleaned", candidatePath: "/tmp/../var/log/", baseDirectory: "/srv", expectedPath: "/var/log"},
		{name: "relative_anchored", candidatePath: "build/out", baseDirectory: "/srv", expectedPath: filepath.Join("/srv", "build", "out")},
		{name: "relative_without_base", candidatePath: "./build", baseDirectory: "", expectedPath: "build"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, resolver.Resolve(testCase.candidatePath, testCase.baseDirectory))
		})
	}
}

func TestWorkingDirectoryResolverKeepsTildeWhenHomeUnavailable(testInstance *testing.T) {
	resolver := pathutils.NewWorkingDirectoryResolverWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})

	require.Equal(testInstance, "~/app", resolver.ExpandHome("~/app"))
}

func TestWorkingDirectoryResolverLooksUpHomeOnce(testInstance *testing.T) {
	lookupCount := 0
	resolver := pathutils.NewWorkingDirectoryResolverWithProvider(func() (string, error) {
		lookupCount++
		return testHomeDirectoryConstant, nil
	})

	resolver.ExpandHome("~/first")
	resolver.ExpandHome("~/second")

	require.Equal(testInstance, 1, lookupCount)
}
