// Command folio audits FIRST robotics engineering portfolios from the
// terminal.
package main

import "github.com/jwulff/folio/internal/cli"

func main() {
	cli.Execute()
}
