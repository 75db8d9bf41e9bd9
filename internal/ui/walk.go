package ui

// Walk visits every node depth first, including nodes nested in columns and tabs.
func Walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		Walk(n.Children, fn)
		for _, t := range n.Tabs {
			Walk(t.Children, fn)
		}
	}
}

// Find returns every node of the given kind.
func Find(nodes []Node, kind Kind) []Node {
	var out []Node
	Walk(nodes, func(n Node) {
		if n.Kind == kind {
			out = append(out, n)
		}
	})
	return out
}
