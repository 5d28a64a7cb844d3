// Copyright © 2026 Arka Labs

// Package hindex implements the keyword classifier and the
// classification-scoped search over the storage tree.
//
// Three static configuration documents drive it: keyword rules, named
// include/exclude scopes, and a classification-to-mode routing table. All
// three load once at construction; a missing or unparsable document is an
// internal error (the router cannot run misconfigured).
package hindex

import (
	"context"
	"strings"

	"github.com/gobwas/glob"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/arkalabs/hcm/pkg/model"
	"github.com/arkalabs/hcm/pkg/status"
	"github.com/arkalabs/hcm/pkg/storage"
)

const (
	// DefaultClass is assigned when no keyword rule matches.
	DefaultClass = "domain_knowledge"

	// DefaultRoutingMode is used for classifications without a routing
	// table entry.
	DefaultRoutingMode = "vector"

	jsonlExt = ".jsonl"
)

// jsonAPI matches the gateway's codec configuration.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Rule is one keyword classification rule.
type Rule struct {
	Class    string   `json:"class"`
	Keywords []string `json:"keywords"`
	Targets  []string `json:"targets,omitempty"`
	Priority int      `json:"priority"`
}

// Scope restricts which files a classification may read.
type Scope struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

type classificationConfig struct {
	Classifications []Rule `json:"classifications"`
}

type scopesConfig struct {
	Scopes map[string]Scope `json:"scopes"`
}

type routingConfig struct {
	Routing map[string]string `json:"routing"`
}

// compiledScope holds the scope's matchers, built once at init. A single
// `*` matches within one path segment, `**` crosses segments.
type compiledScope struct {
	scope    Scope
	includes []glob.Glob
	excludes []glob.Glob
	roots    []string
}

// Engine is the classification and scope router.
type Engine struct {
	store   storage.Store
	log     *zap.Logger
	rules   []Rule
	scopes  map[string]compiledScope
	routing map[string]string
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New loads the three configuration documents and compiles every scope.
// Any failure is an internal error.
func New(ctx context.Context, store storage.Store, opts ...Option) (*Engine, error) {
	e := &Engine{store: store, log: zap.NewNop()}
	for _, apply := range opts {
		apply(e)
	}

	var classification classificationConfig
	if err := store.ReadJSON(ctx, model.ClassificationConfigPath, &classification); err != nil {
		return nil, status.Internal("hindex initialization failed: classification config").Wrap(err)
	}
	var scopes scopesConfig
	if err := store.ReadJSON(ctx, model.ScopesConfigPath, &scopes); err != nil {
		return nil, status.Internal("hindex initialization failed: scopes config").Wrap(err)
	}
	var routing routingConfig
	if err := store.ReadJSON(ctx, model.RoutingConfigPath, &routing); err != nil {
		return nil, status.Internal("hindex initialization failed: routing config").Wrap(err)
	}

	e.rules = classification.Classifications
	e.routing = routing.Routing
	e.scopes = make(map[string]compiledScope, len(scopes.Scopes))
	for name, sc := range scopes.Scopes {
		compiled, err := compileScope(sc)
		if err != nil {
			return nil, status.Internal("hindex initialization failed: scope " + name).Wrap(err)
		}
		e.scopes[name] = compiled
	}
	e.log.Debug("hindex initialized",
		zap.Int("rules", len(e.rules)),
		zap.Int("scopes", len(e.scopes)))
	return e, nil
}

func compileScope(sc Scope) (compiledScope, error) {
	out := compiledScope{scope: sc}
	seen := make(map[string]struct{})
	for _, pattern := range sc.Include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return compiledScope{}, err
		}
		out.includes = append(out.includes, g)
		// Candidate roots come from the first segment of include patterns
		// whose first segment is not itself a wildcard.
		seg := pattern
		if i := strings.IndexByte(pattern, '/'); i >= 0 {
			seg = pattern[:i]
		}
		if seg == "" || strings.Contains(seg, "*") {
			continue
		}
		if _, ok := seen[seg]; !ok {
			seen[seg] = struct{}{}
			out.roots = append(out.roots, seg)
		}
	}
	for _, pattern := range sc.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return compiledScope{}, err
		}
		out.excludes = append(out.excludes, g)
	}
	return out, nil
}

// Classify picks a class for the query by case-insensitive keyword
// substring match. The highest priority wins; ties go to the rule
// declared first; no match yields DefaultClass.
func (e *Engine) Classify(query string) string {
	lower := strings.ToLower(query)
	best := DefaultClass
	maxPriority := -1
	for _, rule := range e.rules {
		matched := false
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				matched = true
				break
			}
		}
		if matched && rule.Priority > maxPriority {
			maxPriority = rule.Priority
			best = rule.Class
		}
	}
	if maxPriority == -1 {
		return DefaultClass
	}
	return best
}

// ScopeFor returns the configured scope of a classification.
func (e *Engine) ScopeFor(class string) (Scope, bool) {
	sc, ok := e.scopes[class]
	return sc.scope, ok
}

// RoutingMode returns the retrieval mode of a classification, or the
// default mode when the table has no entry.
func (e *Engine) RoutingMode(class string) string {
	if mode, ok := e.routing[class]; ok && mode != "" {
		return mode
	}
	return DefaultRoutingMode
}

// Hit is one file surfaced by a search.
type Hit struct {
	Source  string      `json:"source"`
	Content interface{} `json:"content"`
}

// Result is the outcome of a scoped search.
type Result struct {
	Query          string `json:"query"`
	Classification string `json:"classification"`
	Routing        string `json:"routing"`
	Count          int    `json:"count"`
	Results        []Hit  `json:"results"`
	Note           string `json:"note,omitempty"`
}

// Search classifies the query, resolves its scope and reads every file
// the scope admits. Files ending in .jsonl are read as record lists,
// everything else as a single JSON value; unreadable files are skipped.
// The caller id is recorded for audit only — access checks live outside
// the core.
func (e *Engine) Search(ctx context.Context, query, callerID string) (*Result, error) {
	class := e.Classify(query)
	out := &Result{
		Query:          query,
		Classification: class,
		Routing:        e.RoutingMode(class),
		Results:        []Hit{},
	}
	compiled, ok := e.scopes[class]
	if !ok {
		out.Note = "no scope defined for classification"
		return out, nil
	}

	var candidates []string
	for _, root := range compiled.roots {
		files, err := e.store.ListRecursive(ctx, root)
		if err != nil {
			e.log.Debug("skipping unlistable root", zap.String("root", root), zap.Error(err))
			continue
		}
		candidates = append(candidates, files...)
	}

	for _, p := range candidates {
		if !compiled.match(p) {
			continue
		}
		hit, ok := e.readHit(ctx, p)
		if !ok {
			continue
		}
		out.Results = append(out.Results, hit)
	}
	out.Count = len(out.Results)
	e.log.Debug("search",
		zap.String("caller", callerID),
		zap.String("classification", class),
		zap.Int("count", out.Count))
	return out, nil
}

func (c compiledScope) match(p string) bool {
	included := false
	for _, g := range c.includes {
		if g.Match(p) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, g := range c.excludes {
		if g.Match(p) {
			return false
		}
	}
	return true
}

func (e *Engine) readHit(ctx context.Context, p string) (Hit, bool) {
	if strings.HasSuffix(p, jsonlExt) {
		lines, err := e.store.ReadJSONLines(ctx, p, 0)
		if err != nil {
			return Hit{}, false
		}
		records := make([]interface{}, 0, len(lines))
		for _, raw := range lines {
			var v interface{}
			if err := jsonAPI.Unmarshal(raw, &v); err != nil {
				continue
			}
			records = append(records, v)
		}
		return Hit{Source: p, Content: records}, true
	}
	var v interface{}
	if err := e.store.ReadJSON(ctx, p, &v); err != nil {
		return Hit{}, false
	}
	return Hit{Source: p, Content: v}, true
}
