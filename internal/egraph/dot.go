package egraph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDot writes the e-graph in Graphviz dot format. Each class is a
// cluster; edges run from an e-node to the cluster of each child.
func (g *EGraph) WriteDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph egraph {")
	fmt.Fprintln(bw, "  compound=true")
	fmt.Fprintln(bw, "  clusterrank=local")

	classes := g.Classes()
	for _, c := range classes {
		fmt.Fprintf(bw, "  subgraph cluster_%d {\n", c.ID)
		fmt.Fprintln(bw, "    style=dotted")
		for i, n := range c.Nodes {
			fmt.Fprintf(bw, "    %d.%d [label=%s]\n", c.ID, i, strconv.Quote(n.Op))
		}
		fmt.Fprintln(bw, "  }")
	}
	for _, c := range classes {
		for i, n := range c.Nodes {
			for j, child := range n.Children {
				child = g.Find(child)
				fmt.Fprintf(bw, "  %d.%d -> %d.0 [lhead=cluster_%d, label=%d]\n", c.ID, i, child, child, j)
			}
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
