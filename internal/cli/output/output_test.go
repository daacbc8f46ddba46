package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type row struct {
	SSID     string  `json:"ssid"`
	Signal   int     `json:"signal_percent"`
	Priority *int    `json:"priority,omitempty"`
	Secret   string  `json:"secret" table:"-"`
	Ratio    float64 `json:"ratio"`
}

type inner struct {
	Connected bool   `json:"connected"`
	SSID      string `json:"ssid"`
}

type Embedded struct {
	State string `json:"state"`
}

type status struct {
	Embedded
	Connection inner     `json:"connection"`
	Since      time.Time `json:"since"`
	Keys       []string  `json:"keys"`
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, f)

	f, err = ParseFormat("yaml")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestTable_Slice(t *testing.T) {
	p := 1
	var buf bytes.Buffer
	err := NewFormatter(FormatTable).Format(&buf, []row{
		{SSID: "home", Signal: 80, Priority: &p, Secret: "x", Ratio: 0.5},
		{SSID: "cafe", Signal: 40},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, []string{"SSID", "SIGNAL_PERCENT", "PRIORITY", "RATIO"}, strings.Fields(lines[0]))
	require.Equal(t, []string{"home", "80", "1", "0.50"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"cafe", "40", "-", "0"}, strings.Fields(lines[2]))
	require.NotContains(t, buf.String(), "SECRET")
}

func TestTable_Struct(t *testing.T) {
	var buf bytes.Buffer
	err := (&TableFormatter{NoHeaders: true}).Format(&buf, status{
		Embedded:   Embedded{State: "HOTSPOT_ACTIVE"},
		Connection: inner{SSID: "home"},
		Keys:       []string{"a", "b"},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "state")
	require.Contains(t, out, "HOTSPOT_ACTIVE")
	require.Contains(t, out, "connection.connected")
	require.Contains(t, out, "connection.ssid")
	require.Contains(t, out, "a,b")
	require.NotContains(t, out, "FIELD")
}

func TestTable_MapSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]string{"b": "2", "a": "1"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, []string{"a", "1"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"b", "2"}, strings.Fields(lines[2]))
}

func TestTable_ScalarFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, 42))
	require.Equal(t, "42\n", buf.String())
}

func TestTable_Explicit(t *testing.T) {
	tbl := &Table{}
	tbl.SetHeaders("A", "B")
	tbl.AddRow("1", "2")

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, tbl))
	require.Equal(t, "A  B\n1  2\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, row{SSID: "home"}))
	require.Contains(t, buf.String(), `"ssid": "home"`)
}

func TestYAML_UsesJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, []row{{SSID: "home", Signal: 70}}))

	out := buf.String()
	require.Contains(t, out, "- ssid: home")
	require.Contains(t, out, "signal_percent: 70")
	require.NotContains(t, out, "priority")
}

func TestSpinner_StopWaits(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "scanning")
	s.Start()
	s.Stop()
	require.Contains(t, buf.String(), "scanning")
	require.False(t, IsTerminal(&buf))
}
