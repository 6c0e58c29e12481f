// Command vtrace is the batch CLI entry point over pkg/vtrace: decode an
// input image, vectorize it, write an SVG.
package main

import (
	"os"

	"github.com/Fepozopo/vtrace/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
