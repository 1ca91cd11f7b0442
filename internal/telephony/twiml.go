package telephony

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Minimal TwiML builder for the voice webhook answer. It intentionally
// avoids any provider SDK dependency; the only document this service ever
// renders is Connect/Stream with the caller and restaurant numbers as
// stream parameters.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Connect twimlConnect
}

type twimlConnect struct {
	XMLName xml.Name `xml:"Connect"`
	Stream  twimlStream
}

type twimlStream struct {
	XMLName xml.Name         `xml:"Stream"`
	URL     string           `xml:"url,attr"`
	Params  []twimlParameter `xml:"Parameter"`
}

type twimlParameter struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// StreamTwiML renders the document that tells Twilio to open the media
// WebSocket. Phone values are sanitized before embedding.
func StreamTwiML(host, callerPhone, restaurantPhone string) (string, error) {
	doc := twimlResponse{
		Connect: twimlConnect{
			Stream: twimlStream{
				URL: "wss://" + host + "/stream",
				Params: []twimlParameter{
					{Name: "callerPhone", Value: SanitizePhone(callerPhone)},
					{Name: "restaurantPhone", Value: SanitizePhone(restaurantPhone)},
				},
			},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SanitizePhone restricts a phone value to [0-9+\-() ] so nothing can break
// out of the XML attribute it lands in.
func SanitizePhone(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' || r == '-' || r == '(' || r == ')' || r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}
