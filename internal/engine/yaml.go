package engine

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeYAML builds an "any" value from a YAML document, applying the same
// duplicate-key and depth policy as the JSON token path.
func DecodeYAML(b []byte, opt EnforceOptions) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, IssueError{SimpleIssue{Code: "parse_error", Path: "/", Message: err.Error()}}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, IssueError{SimpleIssue{Code: "parse_error", Path: "/", Message: "empty input"}}
	}
	w := yamlWalker{opt: opt}
	return w.value(doc.Content[0], "", 0)
}

type yamlWalker struct {
	opt EnforceOptions
}

func (w yamlWalker) value(n *yaml.Node, path string, depth int) (any, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return w.value(n.Alias, path, depth)
	}
	switch n.Kind {
	case yaml.MappingNode:
		if err := w.checkDepth(path, depth+1); err != nil {
			return nil, err
		}
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn, vn := n.Content[i], n.Content[i+1]
			key := kn.Value
			kpath := joinJSONPointer(path, key)
			if _, dup := m[key]; dup && w.opt.OnDuplicate != DupIgnore {
				si := SimpleIssue{Code: "duplicate_key", Path: kpath, Message: "key '" + key + "' duplicated"}
				if w.opt.OnDuplicate == DupError || w.opt.FailFast {
					return nil, IssueError{si}
				}
				if w.opt.IssueSink != nil {
					w.opt.IssueSink(si)
				}
			}
			v, err := w.value(vn, kpath, depth+1)
			if err != nil {
				return nil, err
			}
			m[key] = v
		}
		return m, nil
	case yaml.SequenceNode:
		if err := w.checkDepth(path, depth+1); err != nil {
			return nil, err
		}
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := w.value(c, joinJSONPointer(path, strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, IssueError{SimpleIssue{Code: "parse_error", Path: normalizeIssuePath(path), Message: err.Error()}}
		}
		return v, nil
	}
	return nil, IssueError{SimpleIssue{Code: "parse_error", Path: normalizeIssuePath(path), Message: "unsupported YAML node"}}
}

func (w yamlWalker) checkDepth(path string, depth int) error {
	if w.opt.MaxDepth > 0 && depth > w.opt.MaxDepth {
		return IssueError{SimpleIssue{Code: "parse_error", Path: normalizeIssuePath(path), Message: "max depth exceeded"}}
	}
	return nil
}
