// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command mangabridge drives the aggregation service from the terminal.
//
//	mangabridge search "chainsaw man"
//	mangabridge chapters anilist:30013
//	mangabridge pages royalroad:21220:331240 --json
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
