package dnstunnel

import (
	"math"
	"strings"

	"github.com/socintel/socintel/config"
	"github.com/socintel/socintel/pkg/data"
)

//Heuristic reasons surfaced in findings
const (
	ReasonLongQuery   = "query length exceeds threshold"
	ReasonManyLabels  = "subdomain label count exceeds threshold"
	ReasonHighEntropy = "query entropy indicates encoded payload"
)

type (
	//Result represents a source whose DNS queries match tunneling
	//heuristics across several distinct names. Query is one
	//representative triggering query.
	Result struct {
		SrcIP      string `bson:"src" json:"src"`
		Query      string `bson:"query" json:"query"`
		Reason     string `bson:"reason" json:"reason"`
		QueryCount int    `bson:"query_count" json:"query_count"`
	}

	//accumulator tracks the distinct triggering queries for one source
	accumulator struct {
		queries map[string]struct{}
		first   string
		reason  string
	}
)

//Detect applies tunneling heuristics to every event carrying a DNS query.
//A source is only flagged once it has triggered on a minimum number of
//distinct queries, which keeps a single long but legitimate name from
//producing a finding.
func Detect(events []data.Event, conf config.DNSTunnelStaticCfg) []Result {
	sources := make(map[string]*accumulator)
	for _, event := range events {
		if event.DNSQuery == "" {
			continue
		}
		reason, suspect := checkQuery(event.DNSQuery, conf)
		if !suspect {
			continue
		}
		source, seen := sources[event.SrcIP]
		if !seen {
			source = &accumulator{
				queries: make(map[string]struct{}),
				first:   event.DNSQuery,
				reason:  reason,
			}
			sources[event.SrcIP] = source
		}
		source.queries[event.DNSQuery] = struct{}{}
	}

	var results []Result
	for srcIP, source := range sources {
		if len(source.queries) < conf.MinQueries {
			continue
		}
		results = append(results, Result{
			SrcIP:      srcIP,
			Query:      source.first,
			Reason:     source.reason,
			QueryCount: len(source.queries),
		})
	}
	return results
}

//checkQuery applies the individual tunneling heuristics to one query
func checkQuery(query string, conf config.DNSTunnelStaticCfg) (string, bool) {
	if len(query) > conf.MaxQueryLength {
		return ReasonLongQuery, true
	}
	if strings.Count(query, ".")+1 > conf.MaxLabels {
		return ReasonManyLabels, true
	}
	if Entropy(query) > conf.EntropyThreshold {
		return ReasonHighEntropy, true
	}
	return "", false
}

//Entropy returns the Shannon entropy of a string in bits per character
func Entropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	counts := make(map[rune]int)
	for _, r := range s {
		counts[r]++
	}
	total := float64(len([]rune(s)))
	entropy := float64(0)
	for _, count := range counts {
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
