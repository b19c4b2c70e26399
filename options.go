package xlsxrag

import (
	"github.com/cordwainer/xlsxrag/cellfmt"
	"github.com/cordwainer/xlsxrag/grid"
	"github.com/cordwainer/xlsxrag/internal/security"
	"github.com/cordwainer/xlsxrag/model"
	"github.com/cordwainer/xlsxrag/render"
)

// selectorKind discriminates the five sheet_selector shapes.
type selectorKind int

const (
	selectAll selectorKind = iota
	selectByIndex
	selectByName
	selectByIndices
	selectByNames
)

// selector resolves the sheet_selector configuration option against an
// opened workbook's ordered sheet list.
type selector struct {
	kind    selectorKind
	index   int
	name    string
	indices []int
	names   []string
}

// Options collects every recognised configuration option. The zero value
// (via [NewOptions]) is: all sheets, data-duplication merges, cached-value
// formulas, hidden rows/columns excluded, no range restriction, and
// markdown-table output.
type Options struct {
	selector      selector
	mergeStrategy grid.Strategy
	dateFormat    cellfmt.DateFormat
	formulaMode   cellfmt.FormulaMode
	includeHidden bool
	hasRange      bool
	rangeVal      model.Range
	outputFormat  render.Format
	security      security.Config
}

// NewOptions returns the default Options, then applies opts in order.
func NewOptions(opts ...Option) Options {
	o := Options{
		selector:      selector{kind: selectAll},
		mergeStrategy: grid.DataDuplication,
		formulaMode:   cellfmt.CachedValue,
		includeHidden: false,
		outputFormat:  render.MarkdownTable,
		security:      security.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option mutates an Options value being built by [NewOptions] or [Convert].
type Option func(*Options)

// WithAllSheets selects every sheet in declared order (the default).
func WithAllSheets() Option {
	return func(o *Options) { o.selector = selector{kind: selectAll} }
}

// WithSheetIndex selects a single sheet by zero-based index.
func WithSheetIndex(i int) Option {
	return func(o *Options) { o.selector = selector{kind: selectByIndex, index: i} }
}

// WithSheetName selects a single sheet by display name (case-insensitive).
func WithSheetName(name string) Option {
	return func(o *Options) { o.selector = selector{kind: selectByName, name: name} }
}

// WithSheetIndices selects several sheets by zero-based index, preserving
// the order given.
func WithSheetIndices(indices []int) Option {
	return func(o *Options) { o.selector = selector{kind: selectByIndices, indices: indices} }
}

// WithSheetNames selects several sheets by display name, preserving the
// order given.
func WithSheetNames(names []string) Option {
	return func(o *Options) { o.selector = selector{kind: selectByNames, names: names} }
}

// WithMergeStrategy selects how merge regions are reconciled into the
// dense grid (§4.5 step 4/5).
func WithMergeStrategy(s grid.Strategy) Option {
	return func(o *Options) { o.mergeStrategy = s }
}

// WithDateFormatISO8601 overrides date rendering to "yyyy-mm-dd" whenever a
// cell is classified as a date and carries no cell-specific custom format.
func WithDateFormatISO8601() Option {
	return func(o *Options) { o.dateFormat = cellfmt.DateFormat{ISO8601: true} }
}

// WithDateFormatCustom overrides date rendering with pattern, using the
// same Excel-token grammar as the built-in renderer.
func WithDateFormatCustom(pattern string) Option {
	return func(o *Options) { o.dateFormat = cellfmt.DateFormat{Custom: pattern} }
}

// WithFormulaMode selects between a cell's cached value and its raw
// formula text.
func WithFormulaMode(m cellfmt.FormulaMode) Option {
	return func(o *Options) { o.formulaMode = m }
}

// WithIncludeHidden controls whether hidden rows, columns, and (for the
// all-sheets selector) hidden sheets are retained.
func WithIncludeHidden(b bool) Option {
	return func(o *Options) { o.includeHidden = b }
}

// WithRange restricts output to cells inside r (inclusive), dropping
// everything else before grid construction.
func WithRange(r model.Range) Option {
	return func(o *Options) {
		o.hasRange = true
		o.rangeVal = r
	}
}

// WithOutputFormat selects the renderer.
func WithOutputFormat(f render.Format) Option {
	return func(o *Options) { o.outputFormat = f }
}

// WithSecurityConfig overrides the default archive-hardening caps.
func WithSecurityConfig(cfg security.Config) Option {
	return func(o *Options) { o.security = cfg }
}
