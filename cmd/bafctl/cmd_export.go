package main

import (
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

func bafMakeCmdExport() *commander.Command {
	cmd := &commander.Command{
		Run:       cmdExport,
		UsageLine: "export file.baf out.txt",
		Short:     "export a file as a tab-separated text table",
		Long: `
export writes every slice of a binary acquisition file as one text row with
one column per channel, preceded by a commented header.

ex:
 $ bafctl export run42.baf run42.txt
`,
		Flag: *flag.NewFlagSet("bafctl-export", flag.ExitOnError),
	}
	return cmd
}

func cmdExport(cmdr *commander.Command, args []string) error {
	if err := wantArgs(args, 2); err != nil {
		return err
	}
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()
	s, err := e.open(args[0])
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Export(args[1])
}
