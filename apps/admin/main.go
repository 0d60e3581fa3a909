package main

import (
	"fmt"
	"os"

	"github.com/trezcool/alama/core/report"
)

func main() {
	cli := &commandLine{
		svc: report.NewService(),
		out: os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
