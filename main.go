package main

import (
	"fmt"
	"os"

	"pankki-csv/cmd/analyze"
	"pankki-csv/cmd/categories"
	"pankki-csv/cmd/root"
)

func init() {
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
