package beacon

import (
	"sort"

	"github.com/socintel/socintel/config"
	"github.com/socintel/socintel/pkg/data"
	"github.com/socintel/socintel/util"
)

type (
	//Result represents a set of periodic, low jitter connections between
	//two hosts on a single destination port
	Result struct {
		SrcIP       string  `bson:"src" json:"src"`
		DstIP       string  `bson:"dst" json:"dst"`
		DstPort     int     `bson:"dst_port" json:"dst_port"`
		IntervalAvg float64 `bson:"interval_avg" json:"interval_avg"`
		Jitter      float64 `bson:"jitter" json:"jitter"`
		Count       int     `bson:"connection_count" json:"connection_count"`
	}

	//accumulator gathers the timestamps observed for one
	//(source, destination, destination port) triple
	accumulator struct {
		srcIP   string
		dstIP   string
		dstPort int
		tsList  []float64
	}
)

//Detect groups the batch by (source, destination, destination port) and
//flags groups whose inter-arrival times have a low coefficient of
//variation. Low variance in timing is the signature of automated periodic
//check-ins, distinguishing them from human-driven bursty traffic.
func Detect(events []data.Event, conf config.BeaconStaticCfg) []Result {
	groups := make(map[string]*accumulator)
	for _, event := range events {
		key := event.TripleKey()
		group, seen := groups[key]
		if !seen {
			group = &accumulator{
				srcIP:   event.SrcIP,
				dstIP:   event.DstIP,
				dstPort: event.DstPort,
			}
			groups[key] = group
		}
		group.tsList = append(group.tsList, event.Timestamp)
	}

	var results []Result
	for _, group := range groups {
		if len(group.tsList) < conf.MinConnections {
			continue
		}

		// input batches are not guaranteed to be ordered
		sort.Sort(util.SortableFloat64(group.tsList))

		diffs := make([]float64, len(group.tsList)-1)
		for i := 0; i < len(diffs); i++ {
			diffs[i] = group.tsList[i+1] - group.tsList[i]
		}

		mean := util.Mean(diffs)
		if mean <= 0 {
			// all connections at the same instant carry no cadence
			continue
		}

		// coefficient of variation of the inter-arrival times
		cv := util.StdDev(diffs, mean) / mean
		if cv > conf.MaxJitter {
			continue
		}

		results = append(results, Result{
			SrcIP:       group.srcIP,
			DstIP:       group.dstIP,
			DstPort:     group.dstPort,
			IntervalAvg: util.RoundTo(mean, 2),
			Jitter:      util.RoundTo(cv, 4),
			Count:       len(group.tsList),
		})
	}
	return results
}
