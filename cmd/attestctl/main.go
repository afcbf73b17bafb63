// Command attestctl is the operator CLI: it validates files against upload
// policies and works with TOTP secrets, vault ciphertexts and access tokens
// offline.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
