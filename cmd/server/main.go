// cmd/server/main.go
package main

import "github.com/foodmarket/marketplace/cmd/server/commands"

func main() {
	commands.Execute()
}
