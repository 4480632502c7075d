package technique

import (
	"fmt"
	"math"
	"sort"

	"github.com/socintel/socintel/config"
	"github.com/socintel/socintel/pkg/anomaly"
	"github.com/socintel/socintel/pkg/data"
	"github.com/socintel/socintel/util"
)

//ATT&CK identifiers emitted by the rule table
const (
	TechniqueAppLayerC2      = "T1071"
	TechniqueNetServiceScan  = "T1046"
	TechniqueDNSC2           = "T1071.004"
	TechniqueRemoteSystem    = "T1018"
	TechniqueNonStandardPort = "T1571"
)

//Tactic names used by the rule table
const (
	TacticCommandAndControl = "Command and Control"
	TacticDiscovery         = "Discovery"
)

type (
	//Match is one inferred adversary technique with its supporting
	//evidence. At most one Match per technique ID leaves the mapper.
	Match struct {
		TechniqueID   string   `bson:"technique_id" json:"technique_id"`
		TechniqueName string   `bson:"technique_name" json:"technique_name"`
		Tactic        string   `bson:"tactic" json:"tactic"`
		Confidence    float64  `bson:"confidence" json:"confidence"`
		Evidence      []string `bson:"evidence" json:"evidence"`
	}

	//Rule inspects the event batch and the anomaly findings and emits
	//zero or more technique matches. Rules are independent and additive.
	Rule func(events []data.Event, report anomaly.Report, conf *config.Config) []Match
)

//rules is the fixed table the mapper runs. Order only affects evidence
//ordering, not the output set.
var rules = []Rule{
	beaconC2Rule,
	portScanRule,
	networkScanRule,
	dnsTunnelRule,
	nonStandardPortRule,
}

//Infer runs the rule table over one batch and merges duplicate technique
//IDs, keeping the maximum confidence and the union of the evidence. The
//result contents are deterministic for a given batch; the order is not
//guaranteed.
func Infer(events []data.Event, report anomaly.Report, conf *config.Config) []Match {
	merged := make(map[string]*Match)
	for _, rule := range rules {
		for _, match := range rule(events, report, conf) {
			existing, seen := merged[match.TechniqueID]
			if !seen {
				copied := match
				merged[match.TechniqueID] = &copied
				continue
			}
			existing.Confidence = math.Max(existing.Confidence, match.Confidence)
			for _, fact := range match.Evidence {
				if !util.StringInSlice(fact, existing.Evidence) {
					existing.Evidence = append(existing.Evidence, fact)
				}
			}
		}
	}

	results := make([]Match, 0, len(merged))
	for _, match := range merged {
		results = append(results, *match)
	}
	return results
}

//beaconC2Rule maps periodic low jitter connections to application layer
//command and control. Confidence scales with the number of repetitions.
func beaconC2Rule(events []data.Event, report anomaly.Report, conf *config.Config) []Match {
	var matches []Match
	for _, b := range report.Beacons {
		confidence := util.ClampFloat64(0.5+float64(b.Count)*0.05, 0, 1)
		matches = append(matches, Match{
			TechniqueID:   TechniqueAppLayerC2,
			TechniqueName: "Application Layer Protocol",
			Tactic:        TacticCommandAndControl,
			Confidence:    confidence,
			Evidence: []string{fmt.Sprintf(
				"%s -> %s:%d every %.2fs over %d connections (jitter %.4f)",
				b.SrcIP, b.DstIP, b.DstPort, b.IntervalAvg, b.Count, b.Jitter,
			)},
		})
	}
	return matches
}

//portScanRule maps destination port fan-out to network service discovery
func portScanRule(events []data.Event, report anomaly.Report, conf *config.Config) []Match {
	var matches []Match
	for _, scan := range report.PortScans {
		confidence := util.ClampFloat64(0.3+float64(scan.UniquePorts)/50.0, 0, 1)
		target := scan.DstIP
		if target == "" {
			target = fmt.Sprintf("%d hosts", scan.UniqueHosts)
		}
		matches = append(matches, Match{
			TechniqueID:   TechniqueNetServiceScan,
			TechniqueName: "Network Service Discovery",
			Tactic:        TacticDiscovery,
			Confidence:    confidence,
			Evidence: []string{fmt.Sprintf(
				"%s contacted %d distinct ports on %s",
				scan.SrcIP, scan.UniquePorts, target,
			)},
		})
	}
	return matches
}

//networkScanRule maps scans spread over many destination hosts to remote
//system discovery
func networkScanRule(events []data.Event, report anomaly.Report, conf *config.Config) []Match {
	var matches []Match
	for _, scan := range report.PortScans {
		if !scan.IsNetworkScan(conf.S.Scanning) {
			continue
		}
		confidence := util.ClampFloat64(0.3+float64(scan.UniqueHosts)/20.0, 0, 1)
		matches = append(matches, Match{
			TechniqueID:   TechniqueRemoteSystem,
			TechniqueName: "Remote System Discovery",
			Tactic:        TacticDiscovery,
			Confidence:    confidence,
			Evidence: []string{fmt.Sprintf(
				"%s swept %d distinct hosts across %d ports",
				scan.SrcIP, scan.UniqueHosts, scan.UniquePorts,
			)},
		})
	}
	return matches
}

//dnsTunnelRule maps tunneling heuristics to DNS command and control.
//Query volume direction is not observable in the event model, so the
//channel is consistently attributed to command and control rather than
//exfiltration.
func dnsTunnelRule(events []data.Event, report anomaly.Report, conf *config.Config) []Match {
	var matches []Match
	for _, suspect := range report.DNSTunnels {
		confidence := util.ClampFloat64(0.4+float64(suspect.QueryCount)*0.1, 0, 1)
		matches = append(matches, Match{
			TechniqueID:   TechniqueDNSC2,
			TechniqueName: "DNS",
			Tactic:        TacticCommandAndControl,
			Confidence:    confidence,
			Evidence: []string{fmt.Sprintf(
				"%s issued %d suspect queries (%s), e.g. %s",
				suspect.SrcIP, suspect.QueryCount, suspect.Reason, suspect.Query,
			)},
		})
	}
	return matches
}

//standard server ports for the application protocols we can identify
var httpPorts = []int{80, 8000, 8080, 8888}
var tlsPorts = []int{443, 8443}

//nonStandardPortRule flags application protocol traffic on unexpected
//server ports
func nonStandardPortRule(events []data.Event, report anomaly.Report, conf *config.Config) []Match {
	var evidence []string
	seen := make(map[string]struct{})
	for _, event := range events {
		var mismatch bool
		if event.HTTPHost != "" && !intInSlice(event.DstPort, httpPorts) {
			mismatch = true
		}
		if event.TLSServerName != "" && !intInSlice(event.DstPort, tlsPorts) {
			mismatch = true
		}
		if !mismatch {
			continue
		}
		key := event.TripleKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		evidence = append(evidence, fmt.Sprintf(
			"application traffic on non-standard port: %s", event.FlowString(),
		))
	}
	if len(evidence) == 0 {
		return nil
	}
	sort.Strings(evidence)
	return []Match{{
		TechniqueID:   TechniqueNonStandardPort,
		TechniqueName: "Non-Standard Port",
		Tactic:        TacticCommandAndControl,
		Confidence:    util.ClampFloat64(0.3+float64(len(evidence))*0.1, 0, 0.8),
		Evidence:      evidence,
	}}
}

func intInSlice(value int, list []int) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}
