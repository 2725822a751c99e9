package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/fomu/core"
	"github.com/trezcool/fomu/core/customform"
)

var (
	isTerminalFunc = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) } // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf     *core.Config
	db       *sqlx.DB
	formSvc  customform.Service
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  token -subject SUBJECT [-admin] - mint an API token")
	fmt.Fprintln(cli.out, "  import -file FILE.yaml - create a custom form from a YAML file")
	fmt.Fprintln(cli.out, "  export -id ID [-format json|yaml] - print a custom form")
	fmt.Fprintln(cli.out, "  move -id ID -kind KIND -order N -direction up|down - move a form element")
	fmt.Fprintln(cli.out, "  delete -id ID -kind KIND -order N - delete a form element")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenSubject := tokenCmd.String("subject", "", "Who the token is for, eg. an email address.")
	tokenAdmin := tokenCmd.Bool("admin", false, "Allow editing custom forms.")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importFile := importCmd.String("file", "", "Path to the YAML form file.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportID := exportCmd.String("id", "", "The custom form ID.")
	exportFormat := exportCmd.String("format", "json", "Output format: json or yaml.")

	moveCmd := flag.NewFlagSet("move", flag.ContinueOnError)
	moveID := moveCmd.String("id", "", "The custom form ID.")
	moveKind := moveCmd.String("kind", "", "The element kind: heading, prompt or textBlock.")
	moveOrder := moveCmd.Int("order", 0, "The element order.")
	moveDir := moveCmd.String("direction", "", "up or down.")

	deleteCmd := flag.NewFlagSet("delete", flag.ContinueOnError)
	deleteID := deleteCmd.String("id", "", "The custom form ID.")
	deleteKind := deleteCmd.String("kind", "", "The element kind: heading, prompt or textBlock.")
	deleteOrder := deleteCmd.Int("order", 0, "The element order.")

	for _, fs := range []*flag.FlagSet{tokenCmd, importCmd, exportCmd, moveCmd, deleteCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenSubject == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenSubject, *tokenAdmin)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importForm(*importFile)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportID == "" || (*exportFormat != "json" && *exportFormat != "yaml") {
			exportCmd.Usage()
			return errHelp
		}
		return cli.exportForm(*exportID, *exportFormat)
	case "move":
		if err := moveCmd.Parse(args[2:]); err != nil {
			return err
		}
		ref, err := parseRef(*moveKind, *moveOrder)
		dir := customform.Direction(*moveDir)
		if *moveID == "" || err != nil || !dir.Valid() {
			moveCmd.Usage()
			return errHelp
		}
		return cli.moveElement(*moveID, ref, dir)
	case "delete":
		if err := deleteCmd.Parse(args[2:]); err != nil {
			return err
		}
		ref, err := parseRef(*deleteKind, *deleteOrder)
		if *deleteID == "" || err != nil {
			deleteCmd.Usage()
			return errHelp
		}
		return cli.deleteElement(*deleteID, ref)
	default:
		cli.printUsage()
		return errHelp
	}
}

func parseRef(kind string, order int) (customform.Ref, error) {
	k, err := customform.ParseKind(kind)
	if err != nil {
		return customform.Ref{}, err
	}
	if order < 1 {
		return customform.Ref{}, fmt.Errorf("invalid order %d", order)
	}
	return customform.Ref{Kind: k, Order: order}, nil
}
