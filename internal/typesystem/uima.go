package typesystem

import (
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"
)

// parseUIMA reads the typeDescription elements of a UIMA
// typeSystemDescription. Namespaces are ignored; elements are matched by
// local name.
func parseUIMA(data []byte) ([]TypeDescriptor, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if xmlquery.FindOne(doc, "//*[local-name()='typeSystemDescription']") == nil {
		return nil, invalid("no typeSystemDescription element")
	}
	var types []TypeDescriptor
	for _, n := range xmlquery.Find(doc, "//*[local-name()='typeDescription']") {
		t := TypeDescriptor{
			Name:   childText(n, "name"),
			Parent: childText(n, "supertypeName"),
		}
		for _, f := range xmlquery.Find(n, "./*[local-name()='features']/*[local-name()='featureDescription']") {
			t.Features = append(t.Features, FeatureDescriptor{
				Name:  childText(f, "name"),
				Range: childText(f, "rangeTypeName"),
			})
		}
		types = append(types, t)
	}
	return types, nil
}

func childText(n *xmlquery.Node, local string) string {
	c := xmlquery.FindOne(n, "./*[local-name()='"+local+"']")
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.InnerText())
}
