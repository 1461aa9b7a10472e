package uml

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrSyntax indicates a diagram statement that could not be parsed.
var ErrSyntax = errors.New("invalid diagram syntax")

var (
	artifactRe   = regexp.MustCompile(`^artifact\s+("[^"]+"|[^\s<{]+)(?:\s+as\s+([^\s<{]+))?\s*(.*)$`)
	relationRe   = regexp.MustCompile(`^("[^"]+"|[^\s]+)\s+(<?[-.]+(?:\[[^\]]*\])?[-.]*>?)\s+("[^"]+"|[^\s:]+)\s*:?\s*(.*)$`)
	stereotypeRe = regexp.MustCompile(`<<\s*([^>]+?)\s*>>`)
	packageRe    = regexp.MustCompile(`^(?:package|folder|node|frame|rectangle)\b.*\{\s*$`)
)

// Parse parses diagram text into a tree rooted at a KindDiagram node. firstLine is
// the 1-based source line of the first text line and is used for node positions.
func Parse(text string, firstLine int) (*Node, error) {
	root := &Node{Kind: KindDiagram, Line: firstLine}
	aliases := make(map[string]string)
	depth := 0

	for i, raw := range strings.Split(text, "\n") {
		lineNo := firstLine + i
		line := strings.TrimSpace(raw)

		switch {
		case line == "", strings.HasPrefix(line, "'"), strings.HasPrefix(line, "@"),
			strings.HasPrefix(line, ":") && strings.HasSuffix(line, ":"),
			strings.HasPrefix(line, "skinparam"), strings.HasPrefix(line, "title"),
			strings.HasPrefix(line, "left to right"), strings.HasPrefix(line, "top to bottom"):
			continue
		case packageRe.MatchString(line):
			depth++
			continue
		case line == "}":
			if depth == 0 {
				return nil, fmt.Errorf("%w: line %d: unbalanced '}'", ErrSyntax, lineNo)
			}
			depth--
			continue
		}

		if m := artifactRe.FindStringSubmatch(line); m != nil {
			name := unquote(m[1])
			if m[2] != "" {
				aliases[m[2]] = name
			}
			n := &Node{Kind: KindArtifact, Line: lineNo}
			n.Children = append(n.Children, &Node{Kind: KindArtifactName, Value: name, Line: lineNo})
			n.Children = append(n.Children, stereotypes(m[3], lineNo)...)
			root.Children = append(root.Children, n)
			continue
		}

		if m := relationRe.FindStringSubmatch(line); m != nil {
			from, to := resolve(aliases, unquote(m[1])), resolve(aliases, unquote(m[3]))
			arrow := m[2]
			if strings.HasPrefix(arrow, "<") && !strings.HasSuffix(arrow, ">") {
				from, to = to, from
			}
			n := &Node{Kind: KindDependency, Line: lineNo}
			n.Children = append(n.Children,
				&Node{Kind: KindRelationFrom, Value: from, Line: lineNo},
				&Node{Kind: KindRelationTo, Value: to, Line: lineNo},
			)
			n.Children = append(n.Children, stereotypes(m[4], lineNo)...)
			root.Children = append(root.Children, n)
			continue
		}

		// Notes, components and other element kinds carry no include information.
		if strings.ContainsAny(line, "<>") && strings.Contains(line, "-") {
			return nil, fmt.Errorf("%w: line %d: %q", ErrSyntax, lineNo, line)
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("%w: unterminated group", ErrSyntax)
	}
	return root, nil
}

func stereotypes(s string, line int) []*Node {
	var nodes []*Node
	for _, m := range stereotypeRe.FindAllStringSubmatch(s, -1) {
		nodes = append(nodes, &Node{
			Kind: KindStereotype,
			Line: line,
			Children: []*Node{
				{Kind: KindStereotypeName, Value: m[1], Line: line},
			},
		})
	}
	return nodes
}

func unquote(s string) string {
	return strings.Trim(s, `"`)
}

func resolve(aliases map[string]string, name string) string {
	if full, ok := aliases[name]; ok {
		return full
	}
	return name
}
