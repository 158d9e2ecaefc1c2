package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

// Options is the root command. Sub-commands read the global flags from opts.
type Options struct {
	Config  string `short:"f" long:"config" description:"settings file (TOML, or YAML for .yaml/.yml)"`
	Version bool   `short:"v" long:"version" description:"print version and exit"`

	Init     InitCmd     `command:"init" description:"Write a default settings file"`
	Run      RunCmd      `command:"run" description:"Create the drafts of an ad from a brief"`
	Continue ContinueCmd `command:"continue" description:"Revise an ad by continuing its conversation"`
	Versions VersionsCmd `command:"versions" description:"Inspect and manage the versions of an ad"`
}

var opts Options

func main() {
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.SubcommandsOptional = true
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if opts.Version {
			fmt.Printf("adcraft %s (%s)\n", Version, License)
			return nil
		}
		if cmd == nil {
			parser.WriteHelp(os.Stdout)
			return nil
		}
		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(flagsErr.Message)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
