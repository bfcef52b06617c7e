// Package resolve decides which roster row a submission file belongs to.
//
// A resolver runs an ordered list of strategies and stops at the first one
// that produces a row. Individual mode works through trusted cache entries,
// embedded institutional ids, exporter-written names, and finally fuzzy
// label containment. Group mode trusts the cache and the membership index,
// and may claim an empty roster row for a group seen for the first time.
package resolve

import (
	"log/slog"
	"strings"

	"subsync/internal/groups"
	"subsync/internal/logging"
	"subsync/internal/matchcache"
	"subsync/internal/roster"
)

// Mode selects the strategy cascade.
type Mode string

const (
	ModeIndividual Mode = "individual"
	ModeGroup      Mode = "group"
)

// Method identifies the strategy that resolved a file.
type Method string

const (
	MethodCache      Method = "cache"
	MethodNumericID  Method = "numeric_id"
	MethodNameScan   Method = "name_scan"
	MethodGroupGuess Method = "group_guess"
	MethodGroupIndex Method = "group_index"
	MethodNone       Method = "none"
)

// Result describes the outcome for one file. Row is -1 when no strategy
// succeeded. NewLabel is set when the row was claimed for a previously
// unseen group and the id cell must be written before any link.
type Result struct {
	Row      int
	Method   Method
	NewLabel string
	Claimed  bool
	Extended bool
	Reason   string
}

// Resolved reports whether a roster row was found.
func (r Result) Resolved() bool { return r.Row >= 0 }

type strategy interface {
	method() Method
	resolve(filename string) (Result, bool)
}

// Options carries the collaborators a resolver consults.
type Options struct {
	Mode       Mode
	Roster     *roster.Roster
	Cache      *matchcache.Store
	Groups     *groups.Index
	IDPrefixes []string
	Logger     *slog.Logger
}

// Resolver runs the strategy cascade for one reconciliation run.
type Resolver struct {
	strategies []strategy
	logger     *slog.Logger
}

// New builds a resolver for the given mode. Group mode requires a non-empty
// membership index for the index strategy to participate.
func New(opts Options) *Resolver {
	logger := logging.NewComponentLogger(opts.Logger, "resolver")

	var strategies []strategy
	switch opts.Mode {
	case ModeGroup:
		strategies = append(strategies, &cacheClaimStrategy{roster: opts.Roster, cache: opts.Cache})
		if opts.Groups.Len() > 0 {
			strategies = append(strategies, &groupIndexStrategy{roster: opts.Roster, index: opts.Groups})
		}
	default:
		strategies = append(strategies,
			&cacheLookupStrategy{roster: opts.Roster, cache: opts.Cache},
			&numericIDStrategy{roster: opts.Roster, prefixes: opts.IDPrefixes},
			&nameScanStrategy{roster: opts.Roster},
			&groupGuessStrategy{roster: opts.Roster},
		)
	}

	return &Resolver{strategies: strategies, logger: logger}
}

// Resolve runs the cascade for one filename. The first strategy to find a
// row wins; later strategies never see the file. A miss carries every
// strategy's reason so the unmatched outcome explains what was tried.
func (r *Resolver) Resolve(filename string) Result {
	var misses []string
	for _, s := range r.strategies {
		result, ok := s.resolve(filename)
		attrs := logging.DecisionAttrs(string(s.method()), decisionResult(ok), result.Reason)
		attrs = append(attrs, logging.String(logging.FieldFilename, filename))
		if ok {
			attrs = append(attrs, logging.Int(logging.FieldRow, result.Row))
			r.logger.Debug("match decision", logging.Args(attrs...)...)
			result.Method = s.method()
			return result
		}
		r.logger.Debug("match decision", logging.Args(attrs...)...)
		misses = append(misses, string(s.method())+": "+result.Reason)
	}
	reason := "no strategy matched"
	if len(misses) > 0 {
		reason = strings.Join(misses, "; ")
	}
	return Result{Row: -1, Method: MethodNone, Reason: reason}
}

func decisionResult(ok bool) string {
	if ok {
		return "matched"
	}
	return "miss"
}
