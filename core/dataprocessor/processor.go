// Package dataprocessor converts serialized markup between the data and the
// view dialect. It wires the parsers and serializers of core/xml and
// core/html around a conversion engine and optionally caches results.
package dataprocessor

import (
	"context"
	"log/slog"
	"time"

	"github.com/FocuswithJustin/richtext/core/cache"
	"github.com/FocuswithJustin/richtext/core/convert"
	"github.com/FocuswithJustin/richtext/core/dom"
	"github.com/FocuswithJustin/richtext/core/errors"
	"github.com/FocuswithJustin/richtext/core/html"
	"github.com/FocuswithJustin/richtext/core/richtext"
	"github.com/FocuswithJustin/richtext/core/rules"
	"github.com/FocuswithJustin/richtext/core/xml"
	"github.com/FocuswithJustin/richtext/internal/logging"
)

// Result is the outcome of one conversion.
type Result struct {
	Output []byte
	Report *rules.LossReport
}

// Processor converts documents with a fixed rule set. It is safe for
// concurrent use.
type Processor struct {
	engine      *convert.Engine
	cache       *cache.LRU[cache.Key, Result]
	declaration bool
}

type config struct {
	rules       []rules.RuleConfig
	ruleOpts    []richtext.Option
	logger      *slog.Logger
	cacheSize   int
	declaration bool
}

// Option configures a Processor.
type Option func(*config)

// WithRules replaces the default rule set.
func WithRules(rs []rules.RuleConfig) Option {
	return func(c *config) {
		c.rules = rs
	}
}

// WithRuleOptions passes options to richtext.DefaultRules. They are ignored
// when WithRules is used.
func WithRuleOptions(opts ...richtext.Option) Option {
	return func(c *config) {
		c.ruleOpts = append(c.ruleOpts, opts...)
	}
}

// WithLogger sets the engine logger. It defaults to logging.GetLogger().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithCache enables an LRU cache of size entries keyed by direction and the
// BLAKE3 digest of the input.
func WithCache(size int) Option {
	return func(c *config) {
		c.cacheSize = size
	}
}

// WithDeclaration makes ToData write an XML declaration.
func WithDeclaration() Option {
	return func(c *config) {
		c.declaration = true
	}
}

// New builds a processor. Rule configuration errors are returned here.
func New(opts ...Option) (*Processor, error) {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = logging.GetLogger()
	}
	if c.rules == nil {
		c.rules = richtext.DefaultRules(c.ruleOpts...)
	}

	engine, err := convert.New(c.rules, convert.WithLogger(c.logger))
	if err != nil {
		return nil, errors.Wrap(err, "building conversion engine")
	}
	for _, r := range engine.Rules() {
		logging.RuleLoaded(r.ID, r.Directions().String(), r.Priority.String())
	}

	p := &Processor{
		engine:      engine,
		declaration: c.declaration,
	}
	if c.cacheSize > 0 {
		p.cache = cache.NewSize[cache.Key, Result](c.cacheSize)
	}
	return p, nil
}

// Engine returns the conversion engine.
func (p *Processor) Engine() *convert.Engine {
	return p.engine
}

// CacheStats returns the cache statistics, or false when caching is off.
func (p *Processor) CacheStats() (cache.Stats, bool) {
	if p.cache == nil {
		return cache.Stats{}, false
	}
	return p.cache.Stats(), true
}

// ToData converts a view HTML fragment to a data document.
func (p *Processor) ToData(ctx context.Context, view []byte) (*Result, error) {
	return p.convert(ctx, rules.ToData, view)
}

// ToView converts a data document to a view HTML fragment.
func (p *Processor) ToView(ctx context.Context, data []byte) (*Result, error) {
	return p.convert(ctx, rules.ToView, data)
}

// ToDataString is ToData on strings.
func (p *Processor) ToDataString(ctx context.Context, view string) (string, *rules.LossReport, error) {
	res, err := p.ToData(ctx, []byte(view))
	if err != nil {
		return "", nil, err
	}
	return string(res.Output), res.Report, nil
}

// ToViewString is ToView on strings.
func (p *Processor) ToViewString(ctx context.Context, data string) (string, *rules.LossReport, error) {
	res, err := p.ToView(ctx, []byte(data))
	if err != nil {
		return "", nil, err
	}
	return string(res.Output), res.Report, nil
}

// Parse reads input in the source dialect of dir.
func Parse(dir rules.Direction, input []byte) (*dom.Tree, error) {
	switch dir {
	case rules.ToData:
		return html.ParseTree(input)
	case rules.ToView:
		return xml.ParseTree(input)
	}
	return nil, errors.NewUnsupported("direction", dir.String()+" has no source dialect")
}

// Serialize writes t in the target dialect of dir.
func (p *Processor) Serialize(dir rules.Direction, t *dom.Tree) ([]byte, error) {
	if dir == rules.ToData {
		return xml.SerializeWith(t, xml.SerializeOptions{Declaration: p.declaration}), nil
	}
	return html.Render(t)
}

func (p *Processor) convert(ctx context.Context, dir rules.Direction, input []byte) (*Result, error) {
	start := time.Now()

	var key cache.Key
	if p.cache != nil {
		key = cache.KeyOf(dir.String(), input)
		if res, ok := p.cache.Get(key); ok {
			logging.CacheEvent("hit", key.String())
			return cloneResult(res), nil
		}
	}

	src, err := Parse(dir, input)
	if err != nil {
		logging.ConversionError(dir.String(), err)
		return nil, err
	}
	out, report, err := p.engine.Convert(dir, src)
	if err != nil {
		return nil, err
	}
	output, err := p.Serialize(dir, out)
	if err != nil {
		logging.ConversionError(dir.String(), err)
		return nil, err
	}

	res := Result{Output: output, Report: report}
	if p.cache != nil {
		p.cache.Put(key, res)
		res = *cloneResult(res)
	}

	logging.ConversionContext(ctx, dir.String(), len(input), len(output), string(report.LossClass), time.Since(start),
		"lost_elements", len(report.LostElements))
	return &res, nil
}

// cloneResult copies a cached result so callers cannot alter the cache.
func cloneResult(r Result) *Result {
	out := &Result{Output: append([]byte(nil), r.Output...)}
	if r.Report != nil {
		report := *r.Report
		report.LostElements = append([]rules.LostElement(nil), r.Report.LostElements...)
		report.Warnings = append([]string(nil), r.Report.Warnings...)
		out.Report = &report
	}
	return out
}
