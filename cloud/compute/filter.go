package compute

import (
	"fmt"
	"regexp"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
)

// check is one filter criterion. Unset criteria never participate.
type check struct {
	set  bool
	pass func() bool
}

// combine evaluates the set checks in declaration order. In ALL mode it
// fails on the first failing check; in ANY mode it succeeds on the first
// passing one. whenEmpty is returned when no check is set.
func combine(matchesAny, whenEmpty bool, checks ...check) bool {
	evaluated := false
	for _, c := range checks {
		if !c.set {
			continue
		}
		evaluated = true
		if c.pass() {
			if matchesAny {
				return true
			}
		} else if !matchesAny {
			return false
		}
	}
	if !evaluated {
		return whenEmpty
	}
	return !matchesAny
}

// regexCriterion holds a whole-string pattern matched against name,
// description and tag values.
type regexCriterion struct {
	pattern string
	re      *regexp.Regexp
	err     error
}

func newRegexCriterion(pattern string) *regexCriterion {
	rc := &regexCriterion{pattern: pattern}
	rc.re, rc.err = regexp.Compile("^(?:" + pattern + ")$")
	if rc.err != nil {
		rc.err = cloud.NewInternalError("compile filter regex",
			fmt.Errorf("%w: %q: %v", cloud.ErrInvalidOptions, pattern, rc.err))
	}
	return rc
}

func (rc *regexCriterion) isSet() bool {
	return rc != nil
}

func (rc *regexCriterion) String() string {
	if rc == nil {
		return ""
	}
	return rc.pattern
}

// matches reports whether name, description or any tag value matches.
// An uncompilable pattern matches nothing.
func (rc *regexCriterion) matches(name, description string, tags cloud.Tags) bool {
	if rc.re == nil {
		return false
	}
	return rc.re.MatchString(name) || rc.re.MatchString(description) || tags.AnyValueMatches(rc.re)
}

func (rc *regexCriterion) validate() error {
	if rc == nil {
		return nil
	}
	return rc.err
}

func copyTags(tags cloud.Tags) cloud.Tags {
	if len(tags) == 0 {
		return nil
	}
	return tags.Clone()
}

func withTag(tags cloud.Tags, key, value string) cloud.Tags {
	if tags == nil {
		tags = cloud.Tags{}
	}
	tags[key] = value
	return tags
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
