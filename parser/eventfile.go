package parser

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"

	"github.com/socintel/socintel/pkg/data"
)

//eventSchema describes the normalized event lines produced by the
//upstream capture pipeline. Lines missing the identity fields are
//rejected before decoding.
const eventSchema = `{
	"type": "object",
	"required": ["t", "si", "di", "pr"],
	"properties": {
		"t":         {"type": "number"},
		"si":        {"type": "string", "minLength": 1},
		"sp":        {"type": "integer", "minimum": 0, "maximum": 65535},
		"di":        {"type": "string", "minLength": 1},
		"dp":        {"type": "integer", "minimum": 0, "maximum": 65535},
		"pr":        {"type": "string", "minLength": 1},
		"dns_query": {"type": "string"},
		"http_host": {"type": "string"},
		"tls_sni":   {"type": "string"},
		"service":   {"type": "string"},
		"alert":     {"type": "string"}
	}
}`

//maxLineBytes bounds a single event line
const maxLineBytes = 1024 * 1024

//ReadEventFile parses a newline delimited JSON event file, validating
//each line against the event schema. Gzipped files are handled
//transparently. A single malformed line fails the whole read; importing
//part of a capture would skew every detector downstream.
func ReadEventFile(path string, limit int, logger *log.Logger) ([]data.Event, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(eventSchema))
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer gzReader.Close()
		reader = gzReader
	}

	var events []data.Event
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		docResult, err := schema.Validate(gojsonschema.NewBytesLoader(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s", lineNum, err.Error())
		}
		if !docResult.Valid() {
			logger.WithFields(log.Fields{
				"line":   lineNum,
				"errors": fmt.Sprint(docResult.Errors()),
			}).Error("event line failed schema validation")
			return nil, fmt.Errorf("line %d: event failed schema validation", lineNum)
		}

		var event data.Event
		err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(line, &event)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s", lineNum, err.Error())
		}

		if err := event.Validate(lineNum - 1); err != nil {
			return nil, err
		}

		events = append(events, event)
		if len(events) > limit {
			return nil, fmt.Errorf("%s holds more than the %d event batch limit", path, limit)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
