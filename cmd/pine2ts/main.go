// Command pine2ts transpiles a PineScript v6 source file into Go
// (spec.md §6.5): pine2ts <input> [output].
package main

import "github.com/deepentropy/pine2go/pkg/cmd"

func main() {
	cmd.Execute()
}
