// Package deprecation formats the deprecation warnings shown to library users.
//
// The wording produced by Message is matched by downstream warning filters, so it
// must not change.
package deprecation

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/emenda-labs/apigen/pkg/apierr"
)

// DefaultLibraryName is the library named in every message unless a Formatter says otherwise.
const DefaultLibraryName = "hopsworks"

// Category is reported with every Warning.
const Category = "DeprecationWarning"

var versionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// Warning is emitted every time a deprecated symbol is used from outside the library.
type Warning struct {
	Name     string `json:"name"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

// Formatter builds deprecation messages for a specific library.
type Formatter struct {
	LibraryName string
}

// Message formats a deprecation message with DefaultLibraryName.
func Message(name string, recommendations []string, availableUntil string) (string, error) {
	return Formatter{}.Message(name, recommendations, availableUntil)
}

// Message returns the warning text for name.
// At least one recommendation is required; availableUntil is either empty or "major.minor".
func (f Formatter) Message(name string, recommendations []string, availableUntil string) (string, error) {
	if err := ValidateVersion(availableUntil); err != nil {
		return "", err
	}
	removal := "a future release"
	if availableUntil != "" {
		removal = "version " + availableUntil
	}

	if len(recommendations) == 0 {
		return "", apierr.New(apierr.CodeInvalidDeprecation,
			"At least one recommendation must be provided for deprecation warnings.")
	}

	library := f.LibraryName
	if library == "" {
		library = DefaultLibraryName
	}

	return fmt.Sprintf("%s is deprecated. The function will be removed in %s of %s. Consider using %s instead.",
		name, removal, library, JoinAlternatives(recommendations)), nil
}

// JoinAlternatives joins items with "or": "a", "a or b", "a, b, or c".
func JoinAlternatives(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
	}
}

// ValidateVersion accepts an empty string or a "major.minor" version.
func ValidateVersion(v string) error {
	if v == "" || versionPattern.MatchString(v) {
		return nil
	}
	return apierr.New(apierr.CodeInvalidDeprecation,
		"The available_until parameter must be in the format 'major.minor', e.g., '4.0', got %q.", v)
}

// Overdue reports whether release has reached the removal version availableUntil.
// Both are "major.minor" (release may carry a patch component); an empty
// availableUntil is never overdue.
func Overdue(availableUntil, release string) (bool, error) {
	if availableUntil == "" {
		return false, nil
	}
	if err := ValidateVersion(availableUntil); err != nil {
		return false, err
	}
	if err := ValidateRelease(release); err != nil {
		return false, err
	}
	return semver.Compare(canonicalRelease(release), "v"+availableUntil) >= 0, nil
}

// ValidateRelease accepts a release version such as "4.2", "4.2.1" or "v4.2.1".
func ValidateRelease(release string) error {
	if !semver.IsValid(canonicalRelease(release)) {
		return fmt.Errorf("invalid release version %q", release)
	}
	return nil
}

func canonicalRelease(release string) string {
	return "v" + strings.TrimPrefix(release, "v")
}
