// Package oem fetches and parses CCSDS Orbit Ephemeris Message (OEM) XML feeds.
package oem

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	domsv "github.com/kailas-cloud/isstracker/internal/domain/statevector"
)

// Parser decodes OEM XML into feed samples. It does not validate the schema.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes the ndm/oem/body/segment/data/stateVector elements of raw.
// Multiple segments are concatenated; metadata comes from the first one.
func (p *Parser) Parse(raw []byte) (domsv.Feed, error) {
	var doc ndm
	dec := xml.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return domsv.Feed{}, fmt.Errorf("decode oem xml: %w", err)
	}

	var feed domsv.Feed
	for i, seg := range doc.OEM.Body.Segments {
		if i == 0 {
			feed.ObjectName = strings.TrimSpace(seg.Metadata.ObjectName)
			feed.ObjectID = strings.TrimSpace(seg.Metadata.ObjectID)
			feed.CenterName = strings.TrimSpace(seg.Metadata.CenterName)
			feed.RefFrame = strings.TrimSpace(seg.Metadata.RefFrame)
			feed.TimeSystem = strings.TrimSpace(seg.Metadata.TimeSystem)
		}
		for _, sv := range seg.Data.StateVectors {
			feed.Samples = append(feed.Samples, sv.toSample())
		}
	}
	return feed, nil
}

// XML shapes of the OEM document.

type ndm struct {
	XMLName xml.Name `xml:"ndm"`
	OEM     struct {
		Body struct {
			Segments []segment `xml:"segment"`
		} `xml:"body"`
	} `xml:"oem"`
}

type segment struct {
	Metadata struct {
		ObjectName string `xml:"OBJECT_NAME"`
		ObjectID   string `xml:"OBJECT_ID"`
		CenterName string `xml:"CENTER_NAME"`
		RefFrame   string `xml:"REF_FRAME"`
		TimeSystem string `xml:"TIME_SYSTEM"`
	} `xml:"metadata"`
	Data struct {
		StateVectors []stateVector `xml:"stateVector"`
	} `xml:"data"`
}

type stateVector struct {
	Epoch string    `xml:"EPOCH"`
	X     component `xml:"X"`
	Y     component `xml:"Y"`
	Z     component `xml:"Z"`
	XDot  component `xml:"X_DOT"`
	YDot  component `xml:"Y_DOT"`
	ZDot  component `xml:"Z_DOT"`
}

type component struct {
	Units string `xml:"units,attr"`
	Value string `xml:",chardata"`
}

func (sv stateVector) toSample() domsv.Sample {
	return domsv.Sample{
		Epoch: strings.TrimSpace(sv.Epoch),
		X:     sv.X.toComponent(),
		Y:     sv.Y.toComponent(),
		Z:     sv.Z.toComponent(),
		XDot:  sv.XDot.toComponent(),
		YDot:  sv.YDot.toComponent(),
		ZDot:  sv.ZDot.toComponent(),
	}
}

func (c component) toComponent() domsv.Component {
	return domsv.Component{Value: strings.TrimSpace(c.Value), Units: c.Units}
}
