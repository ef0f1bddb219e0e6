package main

import (
	"flag"
	"fmt"
)

func printUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "Send a file to a printer as a raw print job.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  rawspool [flags] <printer-name> <payload-file>")
	fmt.Fprintln(w, "  rawspool -list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}
