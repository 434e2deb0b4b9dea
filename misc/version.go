// Package misc keeps build time information.
package misc

// Values are set by the linker, see Taskfile.yml.
var (
	appName = "epubgen"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
