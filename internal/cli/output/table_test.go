package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

type buildRow struct {
	Version   string  `json:"version"`
	Commit    string  `json:"commit"`
	GoVersion string  `json:"go_version" table:"wide"`
	Teams     *int    `json:"teams"`
	Skipped   string  `json:"skipped" table:"-"`
	Ready     bool    `json:"ready"`
	Bid       float64 `json:"bid"`
	internal  string
}

func TestTableFormatter_Format_Table(t *testing.T) {
	for _, data := range []any{
		&Table{Headers: []string{"PLAYER", "KIND"}, Rows: [][]string{{"4046", "StartupDraft"}}},
		Table{Headers: []string{"PLAYER", "KIND"}, Rows: [][]string{{"4046", "StartupDraft"}}},
	} {
		var buf bytes.Buffer
		if err := (&TableFormatter{}).Format(&buf, data); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "PLAYER") || !strings.Contains(out, "StartupDraft") {
			t.Errorf("Format(%T) = %q", data, out)
		}
	}
}

func TestTableFormatter_Format_NoHeaders(t *testing.T) {
	table := &Table{Headers: []string{"PLAYER", "KIND"}, Rows: [][]string{{"4046", "Trade"}}}

	var buf bytes.Buffer
	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, table); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); strings.Contains(out, "PLAYER") || !strings.Contains(out, "Trade") {
		t.Errorf("Format() = %q", out)
	}
}

func TestTableFormatter_Format_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Error("Format(nil) should produce empty output")
	}
}

func TestTableFormatter_Format_Record(t *testing.T) {
	teams := 12
	row := buildRow{Version: "1.4.0", GoVersion: "go1.24.4", Teams: &teams, Skipped: "x", internal: "y"}

	tests := []struct {
		name   string
		wide   bool
		data   any
		want   [][]string
		absent []string
	}{
		{
			name: "narrow",
			data: row,
			want: [][]string{
				{"version", "1.4.0"}, {"commit", "-"}, {"teams", "12"}, {"ready", "false"}, {"bid", "-"},
			},
			absent: []string{"go_version", "skipped", "internal"},
		},
		{
			name: "wide pointer",
			wide: true,
			data: &row,
			want: [][]string{
				{"version", "1.4.0"}, {"commit", "-"}, {"go_version", "go1.24.4"},
				{"teams", "12"}, {"ready", "false"}, {"bid", "-"},
			},
			absent: []string{"skipped"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&TableFormatter{Wide: tt.wide, NoHeaders: true}).Format(&buf, tt.data); err != nil {
				t.Fatal(err)
			}
			var got [][]string
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				got = append(got, strings.Fields(line))
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("rows = %v, want %v", got, tt.want)
			}
			for _, name := range tt.absent {
				if strings.Contains(buf.String(), name) {
					t.Errorf("field %q should not be shown", name)
				}
			}
		})
	}
}

func TestTableFormatter_Format_FallbackToJSON(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"scalar", 42, "42"},
		{"map", map[string]int{"a": 1}, "{\n  \"a\": 1\n}"},
		{"nil pointer", (*buildRow)(nil), "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&TableFormatter{}).Format(&buf, tt.data); err != nil {
				t.Fatal(err)
			}
			if got := strings.TrimSpace(buf.String()); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTable_SortBy(t *testing.T) {
	table := &Table{Rows: [][]string{{"b"}, {"10"}, {"2"}, {"a"}, {}}}
	table.SortBy(0)

	var got []string
	for _, r := range table.Rows {
		got = append(got, cell(r, 0))
	}
	// Numeric pairs compare as numbers, everything else lexically.
	if want := []string{"", "2", "10", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortBy = %v", got)
	}

	ids := &Table{Rows: [][]string{{"900"}, {"1000"}, {"95"}}}
	ids.SortBy(0)
	if ids.Rows[0][0] != "95" || ids.Rows[2][0] != "1000" {
		t.Errorf("numeric SortBy = %v", ids.Rows)
	}
}

func TestTable_AddRowAndRender(t *testing.T) {
	table := &Table{}
	table.SetHeaders("PLAYER", "KIND", "DETAIL")
	table.AddRow("4046", "RookieDraft", "2024 2.07")

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatal(err)
	}
	want := "PLAYER  KIND         DETAIL\n4046    RookieDraft  2024 2.07\n"
	if buf.String() != want {
		t.Errorf("Render() = %q, want %q", buf.String(), want)
	}
}
