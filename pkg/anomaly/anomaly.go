package anomaly

import (
	"github.com/socintel/socintel/config"
	"github.com/socintel/socintel/pkg/beacon"
	"github.com/socintel/socintel/pkg/data"
	"github.com/socintel/socintel/pkg/dnstunnel"
	"github.com/socintel/socintel/pkg/scanning"
)

//Report bundles the findings of the three anomaly detectors for one
//analysis run. The total is always recomputed from the lists so the
//count can never drift from the findings themselves.
type Report struct {
	Beacons    []beacon.Result    `bson:"beacons" json:"beacons"`
	PortScans  []scanning.Result  `bson:"port_scans" json:"port_scans"`
	DNSTunnels []dnstunnel.Result `bson:"dns_tunnels" json:"dns_tunnels"`
}

//TotalAnomalies returns the combined finding count across all detectors
func (r Report) TotalAnomalies() int {
	return len(r.Beacons) + len(r.PortScans) + len(r.DNSTunnels)
}

//Detect runs the three detectors over one event batch. The detectors are
//independent; each reads the batch without mutating it. An empty batch
//yields an empty report.
func Detect(events []data.Event, conf *config.Config) Report {
	return Report{
		Beacons:    beacon.Detect(events, conf.S.Beacon),
		PortScans:  scanning.Detect(events, conf.S.Scanning),
		DNSTunnels: dnstunnel.Detect(events, conf.S.DNSTunnel),
	}
}
