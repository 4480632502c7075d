package scanning

import (
	"github.com/socintel/socintel/config"
	"github.com/socintel/socintel/pkg/data"
)

type (
	//Result represents a source which contacted an unusually large
	//number of distinct destination ports within one batch. DstIP is
	//only set when the scan targeted a single host.
	Result struct {
		SrcIP       string `bson:"src" json:"src"`
		DstIP       string `bson:"dst,omitempty" json:"dst,omitempty"`
		UniquePorts int    `bson:"unique_ports" json:"unique_ports"`
		UniqueHosts int    `bson:"unique_hosts" json:"unique_hosts"`
	}

	//accumulator tracks the distinct ports and hosts contacted by one source
	accumulator struct {
		ports map[int]struct{}
		hosts map[string]struct{}
		dstIP string
	}
)

//Detect counts the distinct destination ports contacted by each source
//and flags sources exceeding the configured port threshold. Sources
//spread across several destination hosts are reported per source only,
//as a network scan.
func Detect(events []data.Event, conf config.ScanningStaticCfg) []Result {
	sources := make(map[string]*accumulator)
	for _, event := range events {
		if event.DstPort == 0 {
			continue
		}
		source, seen := sources[event.SrcIP]
		if !seen {
			source = &accumulator{
				ports: make(map[int]struct{}),
				hosts: make(map[string]struct{}),
				dstIP: event.DstIP,
			}
			sources[event.SrcIP] = source
		}
		source.ports[event.DstPort] = struct{}{}
		source.hosts[event.DstIP] = struct{}{}
	}

	var results []Result
	for srcIP, source := range sources {
		if len(source.ports) <= conf.PortThreshold {
			continue
		}
		result := Result{
			SrcIP:       srcIP,
			UniquePorts: len(source.ports),
			UniqueHosts: len(source.hosts),
		}
		if len(source.hosts) == 1 {
			result.DstIP = source.dstIP
		}
		results = append(results, result)
	}
	return results
}

//IsNetworkScan reports whether a scan result spans enough distinct hosts
//to be treated as network reconnaissance rather than a single host sweep
func (r Result) IsNetworkScan(conf config.ScanningStaticCfg) bool {
	return r.UniqueHosts >= conf.HostThreshold
}
