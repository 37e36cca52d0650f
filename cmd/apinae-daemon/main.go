// Command apinae-daemon is the CLI surface of spec.md §6: load a
// configuration file, select one setup, resolve its parameters, and run
// the resulting fleet of HTTP(S) servers and TCP listeners until the
// process is signalled to terminate.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kjetilfjellheim/apinae/config"
	"github.com/kjetilfjellheim/apinae/internal/logger"
	"github.com/kjetilfjellheim/apinae/internal/paramresolver"
	"github.com/kjetilfjellheim/apinae/internal/supervisor"
)

type options struct {
	file               string
	id                 string
	list               bool
	listParams         bool
	listPredefinedSets bool
	params             []string
	predefinedSet      string
	verify             bool
	logLevel           string
}

func main() {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "apinae-daemon",
		Short: "Configuration-driven mock and proxy daemon",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "configuration file path")
	cmd.Flags().StringVar(&opts.id, "id", "", "setup id to run")
	cmd.Flags().BoolVar(&opts.list, "list", false, "print setups and exit")
	cmd.Flags().BoolVar(&opts.listParams, "list-params", false, "print required parameters for --id and exit")
	cmd.Flags().BoolVar(&opts.listPredefinedSets, "list-predefined-sets", false, "print predefined-set names for --id and exit")
	cmd.Flags().StringArrayVar(&opts.params, "param", nil, "KEY=VALUE parameter, repeatable")
	cmd.Flags().StringVar(&opts.predefinedSet, "predefined-set", "", "predefined parameter set name")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "bind everything then exit 0 instead of running forever")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level: trace|debug|info|warn|error")

	_ = cmd.MarkFlagRequired("file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	logger.SetLevel(opts.logLevel)

	cfg, err := config.Load(opts.file)
	if err != nil {
		return err
	}

	if opts.list {
		for _, setup := range cfg.Setups {
			fmt.Printf("%s\t%s\n", setup.Id, setup.Name)
		}
		return nil
	}

	if opts.id == "" {
		return fmt.Errorf("--id is required unless --list is given")
	}

	setup, err := config.FindSetup(cfg, opts.id)
	if err != nil {
		return err
	}

	if opts.listParams {
		for _, p := range setup.Params {
			fmt.Println(p)
		}
		return nil
	}

	if opts.listPredefinedSets {
		for _, set := range setup.PredefinedSets {
			fmt.Println(set.Name)
		}
		return nil
	}

	paramMap := make(map[string]string, len(opts.params))
	for _, kv := range opts.params {
		k, v, found := strings.Cut(kv, "=")
		if !found {
			return fmt.Errorf("invalid --param %q, expected KEY=VALUE", kv)
		}
		paramMap[k] = v
	}

	bindings, err := paramresolver.Resolve(setup, paramMap, opts.predefinedSet)
	if err != nil {
		return err
	}

	sup, err := supervisor.Setup(setup, bindings)
	if err != nil {
		return err
	}

	if err := sup.StartAll(); err != nil {
		return err
	}

	if opts.verify {
		logger.Infof("verify: all servers and listeners bound successfully")
		return nil
	}

	waitForTerminate()
	return nil
}
