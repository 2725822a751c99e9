package main

import (
	"fmt"

	echoapi "github.com/trezcool/fomu/apps/api/echo"
	"github.com/trezcool/fomu/core"
)

// token prints a signed API token for subject.
func (cli *commandLine) token(subject string, isAdmin bool) error {
	subject = core.CleanString(subject)
	token, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(cli.conf, subject, isAdmin))
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
