package main

import (
	stderrs "errors"
	"fmt"
	"os"

	"github.com/chriso345/clowncopterize"
	"github.com/chriso345/clowncopterize/errors"
)

//go:generate go run ../cmd/clowncopterize -w main.go

//clowncopterize:aggregate
type CLIArgs struct {
	Name          *string `desc:"Optional name to operate on"`
	Port          int     `arg:"long,short=p,default=8080" desc:"Port to run the server on"`
	Verbose       bool    `arg:"short=v,long" desc:"Enable verbose output"`
	ClowntownThis bool    `arg:"long,default_value_if=Clowncopterize:true:true" desc:"Turn debugging information on"`
	ClowntownThat bool    `arg:"long,default_value_if=Clowncopterize:true:true" desc:"lists test values"`

	Clowncopterize bool `arg:"long" desc:"Turns all the clowntown flags on"`
}

func main() {
	args := &CLIArgs{}

	if err := clowncopterize.Parse(args, os.Args[1:]); err != nil {
		if stderrs.Is(err, errors.ErrHelp) {
			help, _ := clowncopterize.Usage(args, "app")
			fmt.Print(help)
			return
		}
		fmt.Fprintln(os.Stderr, "Error parsing arguments:", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed Arguments: %+v\n", *args)
}
