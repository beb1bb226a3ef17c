/*
	Copyright 2023 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/f1-sectorwalk/cmd"

func main() {
	cmd.Execute()
}
