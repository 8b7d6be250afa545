// Package profile holds per-language descriptors for best-effort lexical
// matching of comments, strings, and identifiers. Patterns are deliberately
// conservative: false negatives on exotic syntax are tolerated, false
// positives are not.
package profile

import "regexp"

// Rule is one recognition pattern. The payload (text worth spell-checking)
// is capture group 1; the whole match includes delimiters.
type Rule struct {
	Pattern *regexp.Regexp
}

// Profile describes how to recognize extractable spans in one language.
type Profile struct {
	Language string

	// Comments and Strings are matched in that order; earlier matches mask
	// later ones, so string literals inside comments are not re-extracted.
	Comments []Rule
	Strings  []Rule

	// Identifier matches candidate identifiers; only consulted when
	// CheckIdentifiers is set. Disabled for languages where flagging
	// camelCase names is all noise.
	Identifier       *regexp.Regexp
	CheckIdentifiers bool
}

var (
	reLineSlash  = regexp.MustCompile(`//(.*)`)
	reBlockC     = regexp.MustCompile(`(?s)/\*(.*?)\*/`)
	reLineHash   = regexp.MustCompile(`#(.*)`)
	reLineDash   = regexp.MustCompile(`--(.*)`)
	reDocPython  = regexp.MustCompile(`(?s)"""(.*?)"""`)
	reDoubleQuot = regexp.MustCompile(`"((?:[^"\\\n]|\\.)*)"`)
	reSingleQuot = regexp.MustCompile(`'((?:[^'\\\n]|\\.)*)'`)
	reBacktick   = regexp.MustCompile("(?s)`([^`]*)`")
	reIdentifier = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]{2,}`)
)

var profiles = map[string]*Profile{
	"javascript": {
		Language:         "javascript",
		Comments:         []Rule{{reBlockC}, {reLineSlash}},
		Strings:          []Rule{{reDoubleQuot}, {reSingleQuot}, {reBacktick}},
		Identifier:       reIdentifier,
		CheckIdentifiers: true,
	},
	"typescript": {
		Language:         "typescript",
		Comments:         []Rule{{reBlockC}, {reLineSlash}},
		Strings:          []Rule{{reDoubleQuot}, {reSingleQuot}, {reBacktick}},
		Identifier:       reIdentifier,
		CheckIdentifiers: true,
	},
	"go": {
		Language:         "go",
		Comments:         []Rule{{reBlockC}, {reLineSlash}},
		Strings:          []Rule{{reDoubleQuot}, {reBacktick}},
		Identifier:       reIdentifier,
		CheckIdentifiers: true,
	},
	"python": {
		Language:         "python",
		Comments:         []Rule{{reDocPython}, {reLineHash}},
		Strings:          []Rule{{reDoubleQuot}, {reSingleQuot}},
		Identifier:       reIdentifier,
		CheckIdentifiers: true,
	},
	"java": {
		Language: "java",
		Comments: []Rule{{reBlockC}, {reLineSlash}},
		Strings:  []Rule{{reDoubleQuot}},
	},
	"c": {
		Language: "c",
		Comments: []Rule{{reBlockC}, {reLineSlash}},
		Strings:  []Rule{{reDoubleQuot}},
	},
	"cpp": {
		Language: "cpp",
		Comments: []Rule{{reBlockC}, {reLineSlash}},
		Strings:  []Rule{{reDoubleQuot}},
	},
	"csharp": {
		Language: "csharp",
		Comments: []Rule{{reBlockC}, {reLineSlash}},
		Strings:  []Rule{{reDoubleQuot}},
	},
	"rust": {
		Language: "rust",
		Comments: []Rule{{reBlockC}, {reLineSlash}},
		Strings:  []Rule{{reDoubleQuot}},
	},
	"ruby": {
		Language: "ruby",
		Comments: []Rule{{reLineHash}},
		Strings:  []Rule{{reDoubleQuot}, {reSingleQuot}},
	},
	"bash": {
		Language: "bash",
		Comments: []Rule{{reLineHash}},
		Strings:  []Rule{{reDoubleQuot}, {reSingleQuot}},
	},
	"sql": {
		Language: "sql",
		Comments: []Rule{{reLineDash}, {reBlockC}},
		Strings:  []Rule{{reSingleQuot}},
	},
	"yaml": {
		Language: "yaml",
		Comments: []Rule{{reLineHash}},
		Strings:  []Rule{{reDoubleQuot}, {reSingleQuot}},
	},
	"kotlin": {
		Language: "kotlin",
		Comments: []Rule{{reBlockC}, {reLineSlash}},
		Strings:  []Rule{{reDoubleQuot}},
	},
	"php": {
		Language: "php",
		Comments: []Rule{{reBlockC}, {reLineSlash}, {reLineHash}},
		Strings:  []Rule{{reDoubleQuot}, {reSingleQuot}},
	},
	"swift": {
		Language: "swift",
		Comments: []Rule{{reBlockC}, {reLineSlash}},
		Strings:  []Rule{{reDoubleQuot}},
	},
}

// Lookup returns the profile for a normalized language name.
func Lookup(language string) (*Profile, bool) {
	p, ok := profiles[language]
	return p, ok
}

// Languages returns all registered language names.
func Languages() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	return names
}
