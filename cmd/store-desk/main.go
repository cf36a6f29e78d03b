// store-desk is a terminal dashboard for the demo product catalog API.
package main

import "github.com/Store-Desk/Storedesk/cmd/store-desk/cmd"

func main() {
	cmd.Execute()
}
