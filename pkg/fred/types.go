package fred

import "encoding/xml"

// releasesResponse is the JSON envelope of the /fred/releases endpoint.
// The wrapper carries realtime/pagination fields we do not use.
type releasesResponse struct {
	Releases []releasePayload `json:"releases"`
}

type releasePayload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// seriesResponse is the JSON envelope of the /fred/release/series endpoint.
// The array key really is "seriess" in the FRED API.
type seriesResponse struct {
	Seriess []seriesPayload `json:"seriess"`
}

// seriesPayload deliberately omits any release id the payload may carry:
// the release id used in the fetch call is stamped onto the row instead.
type seriesPayload struct {
	ID                      string `json:"id"`
	Title                   string `json:"title"`
	Frequency               string `json:"frequency"`
	SeasonalAdjustmentShort string `json:"seasonal_adjustment_short"`
}

// observationsXML decodes the /fred/series/observations endpoint, which
// serves XML. Every observation field arrives as an attribute; the
// ",attr" tags normalize them into plain field names at decode time.
type observationsXML struct {
	XMLName      xml.Name         `xml:"observations"`
	Observations []observationXML `xml:"observation"`
}

type observationXML struct {
	RealtimeStart string `xml:"realtime_start,attr"`
	RealtimeEnd   string `xml:"realtime_end,attr"`
	Date          string `xml:"date,attr"`
	Value         string `xml:"value,attr"`
}
