package docs

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocPath returns the docs path of module under apiRoot. Root modules get an
// index page inside their own directory so that their submodules can sit next
// to it.
func DocPath(apiRoot, module string, roots map[string]bool) string {
	path := apiRoot + "/" + strings.ReplaceAll(module, ".", "/")
	if roots[module] {
		return path + "/index.md"
	}
	return path + ".md"
}

type moduleOptions struct {
	HeadingLevel     int  `yaml:"heading_level"`
	Members          bool `yaml:"members"`
	ShowRootFullPath bool `yaml:"show_root_full_path"`
	ShowRootHeading  bool `yaml:"show_root_heading"`
}

type objectOptions struct {
	HeadingLevel    int  `yaml:"heading_level"`
	ShowRootHeading bool `yaml:"show_root_heading"`
}

// RenderPage returns the Markdown stub documenting module and, below it, each
// of objects in the given order.
func RenderPage(module string, objects []string) (string, error) {
	moduleBlock, err := optionsBlock(moduleOptions{HeadingLevel: 1, ShowRootFullPath: true, ShowRootHeading: true})
	if err != nil {
		return "", err
	}
	objectBlock, err := optionsBlock(objectOptions{HeadingLevel: 2, ShowRootHeading: true})
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, 2+len(objects))
	parts = append(parts, "---\ntitle: "+module+"\n---\n")
	parts = append(parts, "::: "+module+"\n"+moduleBlock)
	for _, obj := range objects {
		parts = append(parts, "::: "+obj+"\n"+objectBlock)
	}
	return strings.Join(parts, "\n"), nil
}

// optionsBlock renders {"options": opts} as YAML indented by four spaces.
func optionsBlock(opts any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"options": opts}); err != nil {
		return "", fmt.Errorf("encoding mkdocstrings options: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	var out strings.Builder
	for _, line := range strings.SplitAfter(buf.String(), "\n") {
		if strings.TrimSpace(line) != "" {
			out.WriteString("    ")
		}
		out.WriteString(line)
	}
	return out.String(), nil
}
