package docs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MergeSection puts {title: items} into the nav sequence. An entry that is the
// bare title, or a mapping whose only key is the title, is replaced in place;
// otherwise the section is appended. Other entries are left untouched.
func MergeSection(nav *yaml.Node, title string, items []any) error {
	if nav.Kind != yaml.SequenceNode {
		return fmt.Errorf("nav must be a list, got %s", kindName(nav.Kind))
	}

	var value yaml.Node
	if err := value.Encode(items); err != nil {
		return fmt.Errorf("encoding nav section %q: %w", title, err)
	}
	section := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: title},
			&value,
		},
	}

	for i, entry := range nav.Content {
		if isPlaceholder(entry, title) {
			section.HeadComment = entry.HeadComment
			nav.Content[i] = section
			return nil
		}
	}
	nav.Content = append(nav.Content, section)
	return nil
}

func isPlaceholder(entry *yaml.Node, title string) bool {
	switch entry.Kind {
	case yaml.ScalarNode:
		return entry.Value == title
	case yaml.MappingNode:
		return len(entry.Content) == 2 && entry.Content[0].Value == title
	}
	return false
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "empty node"
}
