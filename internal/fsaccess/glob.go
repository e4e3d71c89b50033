package fsaccess

import "github.com/bmatcuk/doublestar/v4"

// Glob expands a path pattern with brace/star/question-mark semantics
// (e.g. "C:\\Users\\*\\NTUSER.DAT", "/home/{alice,bob}/.bash_history").
// An input-not-present condition is signalled by a nil, non-error
// result: the caller logs at warn and emits an empty artifact.
func Glob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
}

// GlobAll is like Glob but also matches directories, for artifacts
// (the Recycle Bin $I scan) that enumerate a directory of like-named
// files without knowing the exact names in advance.
func GlobAll(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}
