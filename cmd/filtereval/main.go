// Command filtereval evaluates a YAML rule file against JSON-lines documents
// read from stdin.
//
//	filtereval --rules rules.yaml --rule staff < documents.jsonl
//
// Every input line is a document of the form
// {"key": "...", "tags": {...}, "body": {...}} and produces one output line
// with the key, the response and the response resolved to a boolean.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
