package main

import "github.com/fraiseql/fraiseql-go/cmd"

func main() {
	cmd.Execute()
}
