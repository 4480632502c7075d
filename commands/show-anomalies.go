package commands

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/socintel/socintel/pkg/beacon"
	"github.com/socintel/socintel/pkg/dnstunnel"
	"github.com/socintel/socintel/pkg/runs"
	"github.com/socintel/socintel/pkg/scanning"
	"github.com/socintel/socintel/resources"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "show-anomalies",
		Usage: "Print detected beacons, port scans, and DNS tunnels to standard out",
		Flags: []cli.Flag{
			humanFlag,
			datasetFlag,
			configFlag,
		},
		Action: showAnomalies,
	}

	bootstrapCommands(command)
}

func showAnomalies(c *cli.Context) error {
	if c.String("dataset") == "" {
		return cli.NewExitError("Specify a dataset with -d", -1)
	}
	res := resources.InitResources(c.String("config"))
	res.DB.SelectDB(c.String("dataset"))

	repo := runs.NewMongoRepository(res)

	beacons, err := repo.Beacons()
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	scans, err := repo.PortScans()
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	tunnels, err := repo.DNSTunnels()
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}

	if len(beacons)+len(scans)+len(tunnels) == 0 {
		return cli.NewExitError("No results were found for "+c.String("dataset"), -1)
	}

	if c.Bool("human-readable") {
		showAnomalyReport(beacons, scans, tunnels)
		return nil
	}

	err = showAnomalyCsv(beacons, scans, tunnels)
	if err != nil {
		return cli.NewExitError(err.Error(), -1)
	}
	return nil
}

func showAnomalyReport(beacons []beacon.Result, scans []scanning.Result,
	tunnels []dnstunnel.Result) {
	if len(beacons) > 0 {
		fmt.Println("Beacons:")
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Source IP", "Destination IP", "Port",
			"Connections", "Avg Interval", "Jitter"})
		for _, d := range beacons {
			table.Append([]string{
				d.SrcIP, d.DstIP, i(d.DstPort), i(d.Count),
				f(d.IntervalAvg), f(d.Jitter),
			})
		}
		table.Render()
	}

	if len(scans) > 0 {
		fmt.Println("Port Scans:")
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Source IP", "Destination IP",
			"Unique Ports", "Unique Hosts"})
		for _, d := range scans {
			table.Append([]string{
				d.SrcIP, d.DstIP, i(d.UniquePorts), i(d.UniqueHosts),
			})
		}
		table.Render()
	}

	if len(tunnels) > 0 {
		fmt.Println("DNS Tunnels:")
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Source IP", "Example Query", "Reason", "Queries"})
		for _, d := range tunnels {
			table.Append([]string{d.SrcIP, d.Query, d.Reason, i(d.QueryCount)})
		}
		table.Render()
	}
}

// showAnomalyCsv flattens the three detectors into one stream with a
// leading type column
func showAnomalyCsv(beacons []beacon.Result, scans []scanning.Result,
	tunnels []dnstunnel.Result) error {
	csvWriter := csv.NewWriter(os.Stdout)
	csvWriter.Write([]string{"Type", "Source", "Destination", "Detail", "Count"})

	for _, d := range beacons {
		csvWriter.Write([]string{
			"beacon", d.SrcIP, d.DstIP,
			fmt.Sprintf("port %d interval %s jitter %s", d.DstPort,
				f(d.IntervalAvg), f(d.Jitter)),
			i(d.Count),
		})
	}
	for _, d := range scans {
		csvWriter.Write([]string{
			"port-scan", d.SrcIP, d.DstIP,
			fmt.Sprintf("%d hosts", d.UniqueHosts), i(d.UniquePorts),
		})
	}
	for _, d := range tunnels {
		csvWriter.Write([]string{
			"dns-tunnel", d.SrcIP, d.Query, d.Reason, i(d.QueryCount),
		})
	}
	csvWriter.Flush()
	return csvWriter.Error()
}
