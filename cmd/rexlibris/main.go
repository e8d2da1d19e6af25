// rexlibris is a random discovery tool for Ex Libris Primo VE libraries.
package main

import (
	"github.com/rexlibris/rexlibris/cmd/rexlibris/cmd"
)

func main() {
	cmd.Execute()
}
