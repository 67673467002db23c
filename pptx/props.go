package pptx

import (
	"strings"
	"time"

	"github.com/tsawler/deckcodec/model"
)

// parseCoreProperties decodes docProps/core.xml. Unparseable dates are
// left zero.
func parseCoreProperties(data []byte) (model.Metadata, error) {
	var doc corePropertiesXML
	if err := decodeXML(data, &doc); err != nil {
		return model.Metadata{}, err
	}
	md := model.Metadata{
		Author:         strings.TrimSpace(doc.Creator),
		Title:          strings.TrimSpace(doc.Title),
		Subject:        strings.TrimSpace(doc.Subject),
		LastModifiedBy: strings.TrimSpace(doc.LastModBy),
		Keywords:       splitKeywords(doc.Keywords),
		Created:        parseW3CDate(doc.Created),
		Modified:       parseW3CDate(doc.Modified),
	}
	return md, nil
}

func splitKeywords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parseW3CDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
