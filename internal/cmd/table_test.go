package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTable(t *testing.T) {
	t.Parallel()

	table := NewDefaultTable()
	table.AddRow(Field{Name: "Name", Value: "flask"}, Field{Name: "Version", Value: "2.2.2"})
	table.AddRow(Field{Name: "Name", Value: "requests"}, Field{Name: "Version", Value: "2.31.0"})

	assert.Empty(t, table.Headers())
	assert.Len(t, table.Rows(), 2)
	assert.Len(t, table.Rows()[0], 2)
}

func TestDefaultTable_headerSelection(t *testing.T) {
	t.Parallel()

	table := NewDefaultTable(WithHeaders{" name "})
	table.AddRow(Field{Name: "Name", Value: "flask"}, Field{Name: "Version", Value: "2.2.2"})
	table.AddRow(Field{Name: "Filename", Value: "flask-2.2.2-py3-none-any.whl"})

	rows := table.Rows()
	assert.Len(t, rows, 1)
	assert.Equal(t, []Field{{Name: "Name", Value: "flask"}}, rows[0])
}
