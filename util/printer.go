package util

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sopiot/scheduling-framework-sub001/api/rank"
	"github.com/sopiot/scheduling-framework-sub001/types"

	"github.com/olekukonko/tablewriter"
)

// PrintTableOfConfigs writes the given configs to the given writer as an ASCII
// table. The table headers are set to Kind, Version, Name, and Created.
func PrintTableOfConfigs(writer io.Writer, configs types.Configs) {
	table := tablewriter.NewWriter(writer)

	table.SetHeader([]string{"Kind", "Version", "Name", "Created"})

	for _, c := range configs {
		table.Append([]string{c.Kind, c.Version, c.Metadata.Name, c.Metadata.Created})
	}

	table.Render()
}

// PrintTableOfResults writes one row per stored trial result. The table
// headers are set to ID, Topology, Policy, Created, Cycles, Latency, Energy,
// and Success Ratio.
func PrintTableOfResults(writer io.Writer, results ...types.TrialResult) {
	table := tablewriter.NewWriter(writer)

	table.SetHeader([]string{"ID", "Topology", "Policy", "Created", "Cycles", "Latency", "Energy", "Success Ratio"})

	for _, r := range results {
		table.Append([]string{
			r.ID,
			r.Topology,
			r.Policy,
			r.Created.Format("2006-01-02T15:04:05Z07:00"),
			strconv.Itoa(r.TotalScenarioCycles),
			latency(r),
			FormatFloat(r.AverageEnergy()),
			FormatFloat(r.AverageSuccessRatio()),
		})
	}

	table.Render()
}

// PrintTableOfNodes writes the middleware nodes of a topology, deepest first.
func PrintTableOfNodes(writer io.Writer, topo *types.Topology) {
	table := tablewriter.NewWriter(writer)

	table.SetHeader([]string{"Name", "Level", "Parent", "Host", "MQTT Port", "Things", "Scenarios"})
	table.SetAutoWrapText(false)

	for _, node := range topo.TraverseNodes(topo.Root()) {
		var (
			parent    string
			things    []string
			scenarios []string
		)

		if p := topo.ParentOf(node); p != nil {
			parent = p.Name
		}

		for _, id := range node.Things {
			things = append(things, topo.Thing(id).Name)
		}

		for _, id := range node.Scenarios {
			scenarios = append(scenarios, topo.Scenario(id).Name)
		}

		table.Append([]string{
			node.Name,
			strconv.Itoa(node.Level),
			parent,
			fmt.Sprintf("%s:%d", node.Host, node.Port),
			strconv.Itoa(node.MQTTPort),
			strings.Join(things, ", "),
			strings.Join(scenarios, ", "),
		})
	}

	table.Render()
}

// PrintRanking writes the final comparison table, one row per rank position.
// Each column is ordered independently, so a row can name different policies.
func PrintRanking(writer io.Writer, ranking rank.Ranking) {
	table := tablewriter.NewWriter(writer)

	table.SetHeader([]string{"Rank", "QoS (latency)", "Energy saving", "Stability (success ratio)"})
	table.SetAutoFormatHeaders(false)

	for _, row := range ranking.Rows() {
		table.Append([]string{
			strconv.Itoa(row.Rank),
			cell(row.Latency),
			cell(row.Energy),
			cell(row.Success),
		})
	}

	table.Render()
}

// PrintTrialReport writes the text report of a single trial: a summary table
// followed by per scenario figures.
func PrintTrialReport(writer io.Writer, result types.TrialResult) {
	summary := tablewriter.NewWriter(writer)

	summary.SetHeader([]string{"Topology", "Policy", "Execute Time", "Cycles", "Latency", "Energy", "Success Ratio"})
	summary.Append([]string{
		result.Topology,
		result.Policy,
		result.TotalExecuteTime.String(),
		strconv.Itoa(result.TotalScenarioCycles),
		latency(result),
		FormatFloat(result.AverageEnergy()),
		FormatFloat(result.AverageSuccessRatio()),
	})
	summary.Render()

	fmt.Fprintln(writer)

	scenarios := tablewriter.NewWriter(writer)

	scenarios.SetHeader([]string{"Scenario", "Energy", "Success Ratio"})

	for _, name := range result.Scenarios() {
		scenarios.Append([]string{name, FormatFloat(result.Energy[name]), FormatFloat(result.Success[name])})
	}

	scenarios.Render()
}

func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

func cell(c rank.Cell) string {
	if c.Undefined {
		return fmt.Sprintf("undefined (%s)", c.Policy)
	}

	return fmt.Sprintf("%s (%s)", FormatFloat(c.Value), c.Policy)
}

func latency(r types.TrialResult) string {
	if l, ok := r.Latency(); ok {
		return FormatFloat(l)
	}

	return "n/a"
}
