package ir

import (
	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes the table as an ordered mapping:
//
//	values:
//	  "%0": "-1"
//	  "%3": x
//	  "%4": '%3 * %0'
//	output: '%4'
//
// Values are in position order, which a plain Go map would not preserve.
func (t *Table) MarshalYAML() (interface{}, error) {
	values := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range t.Entries() {
		values.Content = append(values.Content,
			scalar(e.Position.String()),
			scalar(e.Text),
		)
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("values"), values,
			scalar("output"), scalar(t.Output.String()),
		},
	}, nil
}

// scalar builds a string node. The !!str tag keeps numeric text such as
// "-1" a string when decoded.
func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
