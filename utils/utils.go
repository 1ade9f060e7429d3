package utils

import (
	"path"
	"runtime"
	"strconv"
	"strings"
	"unicode"
)

// sourceRoot the relgraph module directory, with a trailing slash
var sourceRoot = func() string {
	_, file, _, _ := runtime.Caller(0)
	return sourceDir(file)
}()

// sourceDir module directory of a file under utils/. runtime.Caller reports
// forward slashes on every platform. Modules fetched at a version live in
// .../relgraph/relgraph@vX, the parent is kept so both layouts match.
func sourceDir(file string) string {
	dir := path.Dir(path.Dir(file))
	if parent := path.Dir(dir); path.Base(parent) == "relgraph" {
		dir = parent
	}
	return dir + "/"
}

// FileWithLineNum file:line of the first caller outside relgraph, test files count as outside
func FileWithLineNum() string {
	pcs := make([]uintptr, 13)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.File, sourceRoot) || strings.HasSuffix(frame.File, "_test.go") {
			return frame.File + ":" + strconv.Itoa(frame.Line)
		}
		if !more {
			return ""
		}
	}
}

// IsValidDBNameChar reports whether c can NOT appear in a table or column name
func IsValidDBNameChar(c rune) bool {
	return !unicode.IsLetter(c) && !unicode.IsNumber(c) && c != '_' && c != '$'
}

// IsValidDBName check name is a plain identifier usable inside backticks
func IsValidDBName(name string) bool {
	fields := strings.FieldsFunc(name, IsValidDBNameChar)
	return len(fields) == 1 && fields[0] == name
}

// IsValidColumnName check name is a plain identifier that can also follow
// the ':' of a named parameter: a letter or '_' then letters, digits or '_'
func IsValidColumnName(name string) bool {
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return name != ""
}
