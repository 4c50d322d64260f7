package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"kilobytes", 1536, "1.5 KB"},
		{"megabytes", 5242880, "5.0 MB"},
		{"gigabytes", 1610612736, "1.5 GB"},
		{"terabytes", 1099511627776, "1.0 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSize(tt.bytes))
		})
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer

	headers := []string{"ID", "TITLE"}
	rows := [][]string{
		{"100", "Apple"},
		{"9780001", "banana"},
	}

	printTable(&buf, headers, rows)

	assert.Equal(t, "ID       TITLE\n100      Apple\n9780001  banana\n", buf.String())
}

func TestPrintTable_NoRows(t *testing.T) {
	var buf bytes.Buffer

	printTable(&buf, []string{"ID", "TITLE"}, nil)
	assert.Equal(t, "ID  TITLE\n", buf.String())
}

func TestStatusf(t *testing.T) {
	var buf bytes.Buffer

	statusf(&buf, false, "saved %s\n", "1.epub")
	statusf(&buf, true, "hidden\n")

	assert.Equal(t, "saved 1.epub\n", buf.String())
}

func TestCLIContextStatusf_SilentInScriptMode(t *testing.T) {
	var buf bytes.Buffer

	cc := &CLIContext{Stderr: &buf, Flags: CLIFlags{Script: true}}
	cc.Statusf("hello\n")
	assert.Empty(t, buf.String())

	cc.Flags.Script = false
	cc.Statusf("hello\n")
	assert.Equal(t, "hello\n", buf.String())
}

func TestPrintTable_AlignsByDisplayWidth(t *testing.T) {
	var buf bytes.Buffer

	printTable(&buf, []string{"TITLE", "ID"}, [][]string{
		{"Misérables", "1"},
		{"Café", "2"},
		{"三体", "3"},
		{"Dune", "4"},
	})

	assert.Equal(t, ""+
		"TITLE       ID\n"+
		"Misérables  1\n"+
		"Café        2\n"+
		"三体        3\n"+
		"Dune        4\n", buf.String())
}

func TestCellWidth(t *testing.T) {
	assert.Equal(t, 5, cellWidth("Apple"))
	assert.Equal(t, 10, cellWidth("Misérables"))
	assert.Equal(t, 4, cellWidth("Café"))
	assert.Equal(t, 4, cellWidth("三体"))
	assert.Equal(t, 0, cellWidth(""))
}
