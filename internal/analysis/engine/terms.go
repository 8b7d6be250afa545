package engine

import "strings"

// technicalTerms is the built-in vocabulary of programming and operations
// jargon that must never be flagged. Keeping identifiers and shop talk out
// of the findings is a hard quality bar, not an optimization: the fallback
// checker guarantees zero findings against this corpus.
var technicalTerms = newWordSet(
	// languages, runtimes, platforms
	"javascript", "typescript", "python", "golang", "kotlin", "csharp",
	"nodejs", "deno", "wasm", "jvm", "clang", "gcc", "rustc",
	// web and protocols
	"http", "https", "html", "css", "json", "yaml", "toml", "xml", "grpc",
	"url", "uri", "urls", "api", "apis", "rest", "graphql", "websocket",
	"oauth", "jwt", "cors", "tls", "ssl", "tcp", "udp", "dns", "smtp", "ssh",
	"ipv4", "ipv6", "localhost", "webhook", "webhooks", "endpoint", "endpoints",
	// data and storage
	"postgres", "postgresql", "mysql", "sqlite", "redis", "mongodb", "kafka",
	"sql", "nosql", "db", "dbs", "schema", "schemas", "jsonb", "uuid", "uuids",
	"blob", "blobs", "cache", "caches", "caching", "memcached", "etcd",
	// infra and ops
	"kubernetes", "k8s", "docker", "dockerfile", "containerd", "terraform",
	"aws", "gcp", "azure", "devops", "cicd", "ci", "cd", "linux", "unix",
	"systemd", "nginx", "grafana", "prometheus", "observability",
	"microservice", "microservices", "serverless",
	// code vocabulary
	"const", "var", "func", "fn", "def", "len", "init", "args", "argv",
	"kwargs", "param", "params", "arg", "bool", "boolean", "int", "ints",
	"uint", "float", "str", "string", "strings", "struct", "structs", "enum",
	"enums", "tuple", "tuples", "nil", "null", "nullable", "undefined",
	"async", "await", "goroutine", "goroutines", "mutex", "mutexes",
	"chan", "chans", "ptr", "ptrs", "ref", "refs", "deref", "impl", "iface",
	"interop", "stdin", "stdout", "stderr", "stdlib", "regex", "regexp",
	"regexes", "linter", "linters", "linting", "lint", "ast", "asts",
	"parser", "parsers", "lexer", "lexers", "tokenizer", "tokenize",
	"tokenized", "tokenizing", "stringify", "stringified", "serde",
	"marshal", "unmarshal", "marshaling", "unmarshaling", "serializer",
	"deserialize", "deserialized", "deserializer", "serialization",
	"deserialization", "iterator", "iterators", "iterable", "iterables",
	"callback", "callbacks", "middleware", "middlewares", "mixin", "mixins",
	"getter", "getters", "setter", "setters", "accessor", "accessors",
	"timestamp", "timestamps", "datetime", "tz", "utc",
	// tooling and workflow
	"git", "github", "gitlab", "repo", "repos", "monorepo", "changelog",
	"readme", "todo", "todos", "fixme", "wip", "refactor", "refactoring",
	"refactored", "backport", "backported", "hotfix", "hotfixes", "rollback",
	"rollbacks", "changeset", "changesets", "precommit", "prerelease",
	"semver", "deps", "dep", "devtools", "cli", "clis", "sdk", "sdks",
	"ide", "ides", "vscode", "vim", "emacs",
	// common abbreviations
	"auth", "admin", "admins", "config", "configs", "env", "envs", "ctx",
	"cfg", "src", "dst", "dir", "dirs", "tmp", "temp", "util", "utils",
	"misc", "info", "infos", "msg", "msgs", "buf", "bufs", "fmt", "calc",
	"impl", "spec", "specs", "sync", "async", "prev", "usr", "bin", "lib",
	"libs", "pkg", "pkgs", "mod", "mods", "ns", "id", "ids", "idx", "num",
	"nums", "max", "min", "avg", "stats", "metadata", "middleware",
	"namespace", "namespaces", "whitespace", "backtick", "backticks",
	"keyset", "bitmask", "bitmasks", "hashmap", "hashmaps", "hashset",
	"tuple", "subcommand", "subcommands", "substring", "substrings",
	"superset", "subset", "subsets", "stdin", "noop", "vm", "vms",
	"multiline", "inline", "offline", "online", "lookup", "lookups",
	"fallback", "fallbacks", "backend", "backends", "frontend", "frontends",
	"fullstack", "runtime", "runtimes", "hostname", "hostnames", "filename",
	"filenames", "filepath", "filepaths", "dataset", "datasets", "codebase",
	"codebases", "keybinding", "keybindings", "plugin", "plugins", "addon",
	"addons", "preload", "preloaded", "autosave", "autocomplete", "dropdown",
	"checkbox", "checkboxes", "tooltip", "tooltips", "viewport", "scrollbar",
)

// wordSet is a case-insensitive set of words.
type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

func (s wordSet) Has(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}

func (s wordSet) Add(word string) {
	s[strings.ToLower(word)] = struct{}{}
}

// TechnicalTermCount is exported for tests asserting coverage of the corpus.
func TechnicalTermCount() int {
	return len(technicalTerms)
}

// IsTechnicalTerm reports whether the token is built-in technical vocabulary.
func IsTechnicalTerm(token string) bool {
	return technicalTerms.Has(token)
}
