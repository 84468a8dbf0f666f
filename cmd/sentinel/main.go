// Command sentinel tracks the premium of Nasdaq-100 ETFs listed in China
// against their official NAV, ranks them, and reports over HTTP, Telegram and the terminal.
//
//	sentinel serve
//	sentinel rank --sort premium --dir asc
//	sentinel detail 513100 --days 90
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
