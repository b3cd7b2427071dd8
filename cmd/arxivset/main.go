// Command arxivset loads and filters arXiv metadata snapshots.
package main

import "github.com/mesh-intelligence/arxivset/internal/cli"

func main() {
	cli.Execute()
}
