// ledger-cli is a command line client for the ledger API.
package main

import "github.com/information-sharing-networks/ledger-demo/internal/cli"

func main() {
	cli.Execute()
}
