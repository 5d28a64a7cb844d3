// Copyright © 2026 Arka Labs

package main

import "github.com/arkalabs/hcm/cmd/hcm/cmd"

func main() {
	cmd.Execute()
}
