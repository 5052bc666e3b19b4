package cmd

import "strings"

// Table is consumed by Printer implementations to render tabular data.
type Table interface {
	// Headers returns the table's headers if any.
	Headers() []string
	// Rows returns the table data as rows of Fields.
	Rows() [][]Field
}

// NewDefaultTable returns a Table which selects Fields from each row by
// the configured Headers. Without Headers all fields are kept.
func NewDefaultTable(opts ...TableOption) *DefaultTable {
	var cfg TableConfig

	cfg.Option(opts...)

	return &DefaultTable{
		cfg: cfg,
	}
}

type DefaultTable struct {
	cfg TableConfig

	data []row
}

func (t *DefaultTable) Headers() []string {
	return t.cfg.Headers
}

func (t *DefaultTable) AddRow(fields ...Field) {
	t.data = append(t.data, row(fields))
}

func (t *DefaultTable) Rows() [][]Field {
	res := make([][]Field, 0, len(t.data))

	for _, r := range t.data {
		if len(t.cfg.Headers) == 0 {
			res = append(res, []Field(r))
			continue
		}
		if selected := r.selectFields(t.cfg.Headers...); len(selected) > 0 {
			res = append(res, selected)
		}
	}

	return res
}

type TableConfig struct {
	Headers []string
}

func (c *TableConfig) Option(opts ...TableOption) {
	for _, opt := range opts {
		opt.ConfigureTable(c)
	}
}

type TableOption interface {
	ConfigureTable(*TableConfig)
}

type row []Field

func (r row) selectFields(names ...string) []Field {
	var res []Field

	for _, n := range names {
		for _, f := range r {
			if normalize(f.Name) == normalize(n) {
				res = append(res, f)

				break
			}
		}
	}

	return res
}

func normalize(name string) string {
	trimmed := strings.TrimSpace(name)
	snaked := strings.Join(strings.Fields(trimmed), "_")

	return strings.ToLower(snaked)
}

type Field struct {
	Name  string
	Value any
}
