// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package unimath

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
)

// DefaultMaxPasses bounds how often Apply re-runs the rule list while the
// text is still changing.
const DefaultMaxPasses = 4

// Match is one regexp hit handed to a Rule's ReplaceFunc. Before and After
// hold the surrounding text of the string being rewritten, which is how
// rules express conditions on neighbouring characters.
type Match struct {
	Groups []string
	Before string
	After  string
}

// Group returns capture group i, or "" when it did not participate.
func (m Match) Group(i int) string {
	if i < 0 || i >= len(m.Groups) {
		return ""
	}
	return m.Groups[i]
}

// Rule is a named rewrite over UnicodeMath text. When ReplaceFunc is set it
// takes precedence over the Replace template ($1 style expansion).
type Rule struct {
	Name        string
	Description string
	Pattern     *regexp.Regexp
	Replace     string
	ReplaceFunc func(Match) string
}

func (r Rule) apply(text string) string {
	if r.ReplaceFunc == nil {
		return r.Pattern.ReplaceAllString(text, r.Replace)
	}

	locs := r.Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = text[loc[2*g]:loc[2*g+1]]
			}
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(r.ReplaceFunc(Match{
			Groups: groups,
			Before: text[:loc[0]],
			After:  text[loc[1]:],
		}))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// Registry is an ordered list of post-processing rules. Reads are safe for
// concurrent use; it is meant to be configured before it is shared.
type Registry struct {
	mu        sync.RWMutex
	rules     []Rule
	maxPasses int
}

// NewRegistry returns a registry holding rules in the given order.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{maxPasses: DefaultMaxPasses}
	for _, rule := range rules {
		if err := r.Add(rule); err != nil {
			panic(err)
		}
	}
	return r
}

// ErrInvalidRule is wrapped by Add when a rule is missing its name or pattern.
var ErrInvalidRule = errors.New("invalid rule")

// Add appends rule. Names are unique within a registry.
func (r *Registry) Add(rule Rule) error {
	if rule.Name == "" || rule.Pattern == nil {
		return fmt.Errorf("%w: rule needs a name and a pattern", ErrInvalidRule)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rules {
		if existing.Name == rule.Name {
			return fmt.Errorf("%w: duplicate rule %q", ErrInvalidRule, rule.Name)
		}
	}
	r.rules = append(r.rules, rule)
	return nil
}

// AddPattern compiles pattern and appends it as a template rule.
func (r *Registry) AddPattern(name, pattern, replace, description string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("compile rule %q: %w", name, err)
	}
	return r.Add(Rule{Name: name, Description: description, Pattern: re, Replace: replace})
}

// Remove deletes the named rule and reports whether it existed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rule := range r.rules {
		if rule.Name == name {
			r.rules = append(r.rules[:i:i], r.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Rules returns a snapshot of the registered rules in application order.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// SetMaxPasses changes the pass bound; values below one are ignored.
func (r *Registry) SetMaxPasses(n int) {
	if n < 1 {
		return
	}
	r.mu.Lock()
	r.maxPasses = n
	r.mu.Unlock()
}

// Apply runs every rule in order, repeating the whole list until the text
// stops changing or the pass bound is reached.
func (r *Registry) Apply(text string) string {
	out, _ := r.run(text, 0, slog.Default())
	return out
}

// run applies the rules for at most passes passes; zero means the
// registry's own bound.
func (r *Registry) run(text string, passes int, logger *slog.Logger) (string, []*RuleError) {
	rules := r.Rules()
	if passes < 1 {
		r.mu.RLock()
		passes = r.maxPasses
		r.mu.RUnlock()
	}

	var failures []*RuleError
	for pass := 0; pass < passes; pass++ {
		before := text
		for _, rule := range rules {
			next, err := applyGuarded(rule, text)
			if err != nil {
				logger.Warn("post-processing rule failed", "rule", rule.Name, "pass", pass, "error", err)
				if pass == 0 {
					failures = append(failures, err)
				}
				continue
			}
			text = next
		}
		if text == before {
			break
		}
	}
	return text, failures
}

func applyGuarded(rule Rule, text string) (out string, err *RuleError) {
	defer func() {
		if p := recover(); p != nil {
			err = &RuleError{Rule: rule.Name, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	return rule.apply(text), nil
}
