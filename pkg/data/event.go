package data

import (
	"fmt"
	"strconv"
	"strings"
)

//Event is one normalized connection record handed to the engine by the
//ingestion layer. The JSON tags match the compact field layout produced
//by the upstream capture pipeline; the BSON tags are the readable names
//used in storage.
type Event struct {
	Timestamp     float64 `json:"t" bson:"ts"`
	SrcIP         string  `json:"si" bson:"src"`
	SrcPort       int     `json:"sp,omitempty" bson:"src_port,omitempty"`
	DstIP         string  `json:"di" bson:"dst"`
	DstPort       int     `json:"dp,omitempty" bson:"dst_port,omitempty"`
	Protocol      string  `json:"pr" bson:"proto"`
	DNSQuery      string  `json:"dns_query,omitempty" bson:"dns_query,omitempty"`
	HTTPHost      string  `json:"http_host,omitempty" bson:"http_host,omitempty"`
	TLSServerName string  `json:"tls_sni,omitempty" bson:"tls_sni,omitempty"`
	Service       string  `json:"service,omitempty" bson:"service,omitempty"`
	Alert         string  `json:"alert,omitempty" bson:"alert,omitempty"`
}

//InvalidEventError reports an event which is missing one of the required
//identity fields. Index is the event's position within its batch.
type InvalidEventError struct {
	Index int
	Field string
}

func (e InvalidEventError) Error() string {
	return fmt.Sprintf("event %d: missing required field %q", e.Index, e.Field)
}

//Validate checks the event invariants. The index is only used for error
//reporting.
func (e Event) Validate(index int) error {
	if e.SrcIP == "" {
		return InvalidEventError{Index: index, Field: "si"}
	}
	if e.DstIP == "" {
		return InvalidEventError{Index: index, Field: "di"}
	}
	return nil
}

//ValidateBatch checks every event in a batch, returning the first
//violation found. A partial pass over an invalid batch would misstate
//confidence downstream, so callers must treat any error as fatal for
//the whole run.
func ValidateBatch(events []Event) error {
	for i, event := range events {
		if err := event.Validate(i); err != nil {
			return err
		}
	}
	return nil
}

//PairKey generates a string which may be used to index the
//source/destination pair of an event
func (e Event) PairKey() string {
	var builder strings.Builder
	builder.Grow(len(e.SrcIP) + len(e.DstIP) + 1)
	builder.WriteString(e.SrcIP)
	builder.WriteByte(' ')
	builder.WriteString(e.DstIP)
	return builder.String()
}

//TripleKey generates a string which may be used to index the
//(source, destination, destination port) triple of an event
func (e Event) TripleKey() string {
	var builder strings.Builder
	port := strconv.Itoa(e.DstPort)
	builder.Grow(len(e.SrcIP) + len(e.DstIP) + len(port) + 2)
	builder.WriteString(e.SrcIP)
	builder.WriteByte(' ')
	builder.WriteString(e.DstIP)
	builder.WriteByte(' ')
	builder.WriteString(port)
	return builder.String()
}

//FlowString renders the event's endpoints for use in finding evidence
func (e Event) FlowString() string {
	return fmt.Sprintf("%s:%d -> %s:%d/%s", e.SrcIP, e.SrcPort, e.DstIP, e.DstPort, e.Protocol)
}
