package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// printData writes envelope data in the requested format
func printData(w io.Writer, format string, data json.RawMessage) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		fmt.Fprintln(w, "✓ Done")
		return nil
	}

	switch strings.ToLower(format) {
	case "yaml", "yml":
		return printYAML(w, trimmed)
	case "json", "":
		var buf bytes.Buffer
		if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
			return fmt.Errorf("failed to format response: %w", err)
		}
		buf.WriteByte('\n')
		_, err := buf.WriteTo(w)
		return err
	default:
		return fmt.Errorf("unsupported output format '%s', must be one of: json, yaml", format)
	}
}

// printYAML re-encodes JSON as block-style YAML. Going through yaml.Node
// keeps numbers exactly as the server sent them.
func printYAML(w io.Writer, data []byte) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	clearStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("failed to write yaml: %w", err)
	}
	return enc.Close()
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		clearStyle(child)
	}
}

// payloadFlags collects a request body from --file, --data and --set
type payloadFlags struct {
	file string
	data string
	sets []string
}

func addPayloadFlags(cmd *cobra.Command, p *payloadFlags) {
	cmd.Flags().StringVar(&p.file, "file", "", "Read the payload from a JSON or YAML file")
	cmd.Flags().StringVar(&p.data, "data", "", "Payload as a JSON object")
	cmd.Flags().StringArrayVar(&p.sets, "set", nil, "Set a payload field (key=value, value parsed as JSON when valid)")
}

// build merges the sources: file first, then --data, then each --set
func (p *payloadFlags) build() (map[string]any, error) {
	payload := map[string]any{}

	if p.file != "" {
		raw, err := os.ReadFile(p.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		// YAML is a superset of JSON, one decoder covers both
		if err := yaml.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse payload file: %w", err)
		}
		// a null document resets the map
		if payload == nil {
			payload = map[string]any{}
		}
	}

	if p.data != "" {
		var fromData map[string]any
		if err := json.Unmarshal([]byte(p.data), &fromData); err != nil {
			return nil, fmt.Errorf("failed to parse --data: %w", err)
		}
		for k, v := range fromData {
			payload[k] = v
		}
	}

	for _, set := range p.sets {
		key, value, ok := strings.Cut(set, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set '%s', expected key=value", set)
		}
		if json.Valid([]byte(value)) {
			payload[key] = json.RawMessage(value)
		} else {
			payload[key] = value
		}
	}

	return payload, nil
}

// paramFlags collects query parameters from repeated --param key=value
type paramFlags struct {
	params []string
}

func addParamFlags(cmd *cobra.Command, p *paramFlags) {
	cmd.Flags().StringArrayVar(&p.params, "param", nil, "Query parameter (key=value), repeatable")
}

func (p *paramFlags) values() (url.Values, error) {
	if len(p.params) == 0 {
		return nil, nil
	}
	values := url.Values{}
	for _, param := range p.params {
		key, value, ok := strings.Cut(param, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param '%s', expected key=value", param)
		}
		values.Add(key, value)
	}
	return values, nil
}
