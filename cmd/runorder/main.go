// Command runorder manages a marathon schedule's run order and its
// published revisions.
package main

import "github.com/marathon-tools/runorder/internal/cli"

func main() {
	cli.Execute()
}
