// Command bract-lsp runs the language server over stdin/stdout.
package main

import (
	"log"

	"github.com/bract-lang/bract/internal/lsp"
)

func main() {
	srv := lsp.NewServer()
	if err := srv.Serve(); err != nil {
		log.Fatalf("bract-lsp: %v", err)
	}
}
