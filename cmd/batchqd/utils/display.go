// Package utils contains utility functions for the batchq daemon.
package utils

import (
	"fmt"
)

// DisplayLogo prints the batchq ASCII logo with version information
func DisplayLogo(version string) {
	fmt.Println()
	fmt.Println(` ░░░░░░░░░░░░░░░░░░░░░░░░░░░
 ░█▀▄░█▀█░▀█▀░█▀▀░█░█░█▀█░░
 ░█▀▄░█▀█░░█░░█░░░█▀█░█\█░░
 ░▀▀░░▀░▀░░▀░░▀▀▀░▀░▀░░▀▀░░
 ░░░░░░░░░░░░░░░░░░░░░░░░░░`)
	fmt.Printf("\n Batchq v%s - Batching Request Gateway\n", version)
	fmt.Println(" Many small requests in, one batch out")
	fmt.Println()
}
