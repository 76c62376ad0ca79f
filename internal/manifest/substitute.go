package manifest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/oshokin/azan-release/internal/domain/release"
)

// fileMode is applied when a manifest is rewritten in place.
const fileMode = 0o644

// swiftStringDecl matches a whole `let <name> = "<value>"` line.
// The name is anchored on both sides so releaseTag never matches releaseTagURL.
func swiftStringDecl(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^([ \t]*(?:public[ \t]+)?let[ \t]+` + regexp.QuoteMeta(name) + `[ \t]*(?::[ \t]*String[ \t]*)?=[ \t]*)"[^"\n]*"([ \t]*(?://.*)?)$`)
}

// swiftBoolDecl matches a whole `let <name> = true|false` line.
func swiftBoolDecl(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^([ \t]*(?:public[ \t]+)?let[ \t]+` + regexp.QuoteMeta(name) + `[ \t]*(?::[ \t]*Bool[ \t]*)?=[ \t]*)(?:true|false)([ \t]*(?://.*)?)$`)
}

// propertyDecl matches a whole `<key>=<value>` line of a .properties file.
func propertyDecl(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^([ \t]*` + regexp.QuoteMeta(key) + `[ \t]*=[ \t]*)[^\r\n]*$`)
}

// replaceDecl substitutes the value of exactly one declaration.
// It fails with release.ErrManifest when the declaration is missing or ambiguous,
// and leaves every other byte of contents untouched.
func replaceDecl(contents []byte, pattern *regexp.Regexp, name, value string) ([]byte, error) {
	matches := pattern.FindAllIndex(contents, -1)

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: declaration %q not found", release.ErrManifest, name)
	case 1:
	default:
		return nil, fmt.Errorf("%w: declaration %q appears %d times", release.ErrManifest, name, len(matches))
	}

	return pattern.ReplaceAll(contents, []byte("${1}"+escapeTemplate(value)+"${2}")), nil
}

// escapeTemplate protects literal dollar signs from regexp template expansion.
func escapeTemplate(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// rewriteFile applies edit to the file at path and writes it back only when it changed.
func rewriteFile(path string, edit func([]byte) ([]byte, error)) error {
	return RewriteAll(Edit{Path: path, Apply: edit})
}

// swiftString renders a Swift string literal value without the surrounding quotes.
func swiftString(value string) string {
	quoted := strconv.Quote(value)

	return quoted[1 : len(quoted)-1]
}
