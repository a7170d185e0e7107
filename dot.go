package flow

import (
	"fmt"
	"io"
	"sort"

	gographviz "github.com/awalterschulze/gographviz"
)

// ToDot writes the graph's wiring as a Graphviz digraph, one edge per
// active connection, with pin indices as tail and head labels.
func (g *Graph) ToDot(w io.Writer) error {
	dg := gographviz.NewGraph()
	name := quoted(g.Name())
	if err := dg.SetName(name); err != nil {
		return err
	}
	if err := dg.SetDir(true); err != nil {
		return err
	}
	if err := dg.AddAttr(name, "rankdir", "LR"); err != nil {
		return err
	}

	for _, nodes := range []map[string]Node{g.producers, g.transformers, g.consumers} {
		for _, n := range sorted(nodes) {
			if err := dg.AddNode(name, quoted(n), nil); err != nil {
				return err
			}
		}
	}

	froms := make([]PinRef, 0, len(g.connections))
	for from := range g.connections {
		froms = append(froms, from)
	}
	sort.Slice(froms, func(i, j int) bool {
		if froms[i].Node != froms[j].Node {
			return froms[i].Node < froms[j].Node
		}
		return froms[i].Pin < froms[j].Pin
	})
	for _, from := range froms {
		to := g.connections[from]
		err := dg.AddEdge(quoted(from.Node), quoted(to.Node), true, map[string]string{
			"taillabel": fmt.Sprintf(`"%d"`, from.Pin),
			"headlabel": fmt.Sprintf(`"%d"`, to.Pin),
		})
		if err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, dg.String())
	return err
}

func quoted(s string) string {
	return fmt.Sprintf("%q", s)
}

func sorted(nodes map[string]Node) []string {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
