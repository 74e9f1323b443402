package publication

import (
	"strings"

	"github.com/emenda-labs/apigen/pkg/apierr"
)

// SplitPath splits a dotted public path into its module and name parts.
func SplitPath(path string) (module, name string, err error) {
	if err := ValidatePath(path); err != nil {
		return "", "", err
	}
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", "", apierr.New(apierr.CodeInvalidPath,
			"public path %q must name a module and an object, e.g. 'package.module.name'", path)
	}
	return path[:i], path[i+1:], nil
}

// ValidatePath checks that path is a dotted sequence of Python identifiers.
func ValidatePath(path string) error {
	if path == "" {
		return apierr.New(apierr.CodeInvalidPath, "public path cannot be empty")
	}
	for _, part := range strings.Split(path, ".") {
		if !IsIdentifier(part) {
			return apierr.New(apierr.CodeInvalidPath,
				"public path %q contains an invalid segment %q", path, part)
		}
	}
	return nil
}

// IsIdentifier reports whether s is an ASCII Python identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// ModuleParents returns every dotted prefix of module, shortest first, module included.
func ModuleParents(module string) []string {
	parts := strings.Split(module, ".")
	out := make([]string, 0, len(parts))
	for i := 1; i <= len(parts); i++ {
		out = append(out, strings.Join(parts[:i], "."))
	}
	return out
}
