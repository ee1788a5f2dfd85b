package main

import (
	"fmt"
	"os"
	"time"

	"github.com/core-tools/hsu-tray/pkg/app"
	"github.com/core-tools/hsu-tray/pkg/config"

	flags "github.com/jessevdk/go-flags"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

type flagOptions struct {
	Config       string        `long:"config" short:"c" description:"path to a YAML or TOML configuration file"`
	Debug        bool          `long:"debug" description:"log to the console instead of the log file"`
	LogLevel     string        `long:"log-level" description:"log level: debug, info, warn, error"`
	Tooltip      string        `long:"tooltip" description:"tray icon tooltip (default: the command line)"`
	Icon         string        `long:"icon" description:"path to a tray icon image"`
	AppName      string        `long:"app-name" description:"application name, used as the logs directory name"`
	PollInterval time.Duration `long:"poll-interval" description:"how often to check the child process and the menu"`
	NoNotify     bool          `long:"no-notify" description:"disable desktop notifications"`
	Version      bool          `long:"version" short:"v" description:"print the version and exit"`

	Args struct {
		Command []string `positional-arg-name:"command" description:"program to run, followed by its arguments"`
	} `positional-args:"yes"`
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash|flags.PassAfterNonOption)
	parser.Usage = "[OPTIONS] [--] command [args...]"
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Printf("Command line flags parsing failed: %v\n", err)
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("hsu-tray %s\n", version)
		os.Exit(0)
	}

	if len(opts.Args.Command) == 0 {
		fmt.Println("Command is required")
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	runOptions := app.RunOptions{
		Command:    opts.Args.Command,
		ConfigFile: opts.Config,
		Debug:      opts.Debug,
		Overrides: config.Overrides{
			AppName:      opts.AppName,
			LogLevel:     opts.LogLevel,
			Tooltip:      opts.Tooltip,
			Icon:         opts.Icon,
			PollInterval: opts.PollInterval,
			NoNotify:     opts.NoNotify,
		},
	}

	if err := app.Run(runOptions); err != nil {
		fmt.Printf("hsu-tray failed: %v\n", err)
		os.Exit(1)
	}
}
