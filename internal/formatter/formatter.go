package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsonflat/flatten"
	"github.com/mcncl/jsonflat/internal/config"
	"github.com/mcncl/jsonflat/internal/errors"
	"github.com/mcncl/jsonflat/jsonvalue"
	"github.com/mcncl/jsonflat/pointer"
	"gopkg.in/yaml.v3"
)

// rootEnvKey names the root entry in env output when no prefix is set
const rootEnvKey = "VALUE"

// emptyTokenEnvKey stands in for a reference token that converts to nothing
const emptyTokenEnvKey = "_"

// Formatter renders a flattened document in the configured output format
type Formatter struct {
	cfg *config.Config
}

// NewFormatter creates a new Formatter instance
func NewFormatter(cfg *config.Config) *Formatter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Formatter{cfg: cfg}
}

// Format renders m, leaving out entries matched by the exclude rules
func (f *Formatter) Format(m *flatten.Map) (string, error) {
	visible := f.visible(m)

	switch f.cfg.Output.Format {
	case config.FormatJSON:
		return f.formatJSON(visible)
	case config.FormatYAML:
		return f.formatYAML(visible.Entries())
	case config.FormatEnv:
		return f.formatEnv(visible.Entries())
	default:
		return "", errors.NewFormatError(
			fmt.Sprintf("cannot render format %q", f.cfg.Output.Format),
			errors.ErrUnknownFormat,
		)
	}
}

func (f *Formatter) visible(m *flatten.Map) *flatten.Map {
	if len(f.cfg.Output.Exclude) == 0 {
		return m
	}
	return m.Filter(func(ptr string, _ jsonvalue.Value) bool {
		return !f.cfg.IsExcluded(ptr)
	})
}

// formatJSON writes a single object in traversal order
func (f *Formatter) formatJSON(m *flatten.Map) (string, error) {
	compact, err := m.MarshalJSON()
	if err != nil {
		return "", errors.NewFormatError("failed to encode JSON output", err)
	}

	if f.cfg.Output.Indent == 0 {
		return string(compact) + "\n", nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", strings.Repeat(" ", f.cfg.Output.Indent)); err != nil {
		return "", errors.NewFormatError("failed to indent JSON output", err)
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

// formatYAML writes a single mapping in traversal order
func (f *Formatter) formatYAML(entries []flatten.Entry) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range entries {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Pointer},
			yamlNode(e.Value),
		)
	}

	indent := f.cfg.Output.Indent
	if indent < 2 {
		indent = 2
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(doc); err != nil {
		return "", errors.NewFormatError("failed to encode YAML output", err)
	}
	if err := enc.Close(); err != nil {
		return "", errors.NewFormatError("failed to encode YAML output", err)
	}
	return buf.String(), nil
}

// yamlNode converts a flattened value. Containers are always empty here, so
// they render as flow [] and {}.
func yamlNode(v jsonvalue.Value) *yaml.Node {
	switch v.Kind() {
	case jsonvalue.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case jsonvalue.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool())}
	case jsonvalue.Number:
		literal := v.Number().String()
		tag := "!!int"
		if strings.ContainsAny(literal, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: literal}
	case jsonvalue.Array:
		return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	case jsonvalue.Object:
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Style: yaml.FlowStyle}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str()}
	}
}

// formatEnv writes one KEY=value line per entry
func (f *Formatter) formatEnv(entries []flatten.Entry) (string, error) {
	var b strings.Builder
	for _, e := range entries {
		if e.Value.IsContainer() && !f.cfg.Env.IncludePlaceholders {
			continue
		}
		key, err := f.envKey(e.Pointer)
		if err != nil {
			return "", errors.NewFormatError(fmt.Sprintf("failed to derive variable name for %q", e.Pointer), err)
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(envValue(e.Value))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// envKey derives a variable name from a pointer: the prefix followed by each
// reference token in SCREAMING_SNAKE_CASE, joined with underscores. A token
// with no letters or digits (such as "" or " ") becomes "_" so it still
// occupies a segment.
func (f *Formatter) envKey(ptr string) (string, error) {
	if key, ok := f.cfg.EnvKeyFor(ptr); ok {
		return key, nil
	}

	tokens, err := pointer.Tokens(ptr)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(tokens)+1)
	if f.cfg.Env.Prefix != "" {
		parts = append(parts, strcase.ToScreamingSnake(f.cfg.Env.Prefix))
	}
	for _, tok := range tokens {
		part := strcase.ToScreamingSnake(tok)
		if part == "" {
			part = emptyTokenEnvKey
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return rootEnvKey, nil
	}
	return sanitizeEnvKey(strings.Join(parts, "_")), nil
}

// sanitizeEnvKey replaces every byte outside [A-Z0-9_] with an underscore
// and prepends one when the name would start with a digit.
func sanitizeEnvKey(key string) string {
	b := []byte(key)
	for i, c := range b {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			b[i] = '_'
		}
	}
	if len(b) > 0 && b[0] >= '0' && b[0] <= '9' {
		return "_" + string(b)
	}
	return string(b)
}

func envValue(v jsonvalue.Value) string {
	switch v.Kind() {
	case jsonvalue.Null:
		return ""
	case jsonvalue.String:
		return strconv.Quote(v.Str())
	default:
		// numbers, booleans and placeholders read the same as their JSON text
		return v.String()
	}
}
