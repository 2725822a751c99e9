package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/fomu/core/customform"
)

// formFile is the YAML layout of an importable custom form.
type formFile struct {
	Title       string              `yaml:"title"`
	Purpose     customform.Purpose  `yaml:"purpose"`
	NotifyEmail string              `yaml:"notify_email"`
	Content     customform.Document `yaml:"content"`
}

func (cli *commandLine) importForm(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var ff formFile
	if err = yaml.Unmarshal(data, &ff); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}

	nf := customform.NewCustomForm{
		Title:       ff.Title,
		Purpose:     ff.Purpose,
		NotifyEmail: ff.NotifyEmail,
		Content:     &ff.Content,
	}
	if err = nf.Validate(cli.validate); err != nil {
		return err
	}
	form, err := cli.formSvc.Create(context.Background(), nf)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created custom form %s (%d elements)\n", form.ID, form.Content.Len())
	return nil
}

func (cli *commandLine) exportForm(id, format string) error {
	form, err := cli.formSvc.GetByID(context.Background(), id)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "yaml":
		data, err = yaml.Marshal(formFile{
			Title:       form.Title,
			Purpose:     form.Purpose,
			NotifyEmail: form.NotifyEmail,
			Content:     form.Content,
		})
	default:
		if isTerminalFunc() {
			data, err = json.MarshalIndent(form, "", "  ")
		} else {
			data, err = json.Marshal(form)
		}
		data = append(data, '\n')
	}
	if err != nil {
		return errors.Wrap(err, "encoding custom form")
	}
	_, err = cli.out.Write(data)
	return err
}

func (cli *commandLine) moveElement(id string, ref customform.Ref, dir customform.Direction) error {
	return cli.editForm(id, func(ctx context.Context) (customform.CustomForm, error) {
		return cli.formSvc.MoveElement(ctx, id, ref, dir)
	})
}

func (cli *commandLine) deleteElement(id string, ref customform.Ref) error {
	return cli.editForm(id, func(ctx context.Context) (customform.CustomForm, error) {
		return cli.formSvc.DeleteElement(ctx, id, ref)
	})
}

// editForm runs edit and prints the resulting change of the form outline.
func (cli *commandLine) editForm(id string, edit func(ctx context.Context) (customform.CustomForm, error)) error {
	ctx := context.Background()
	before, err := cli.formSvc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	after, err := edit(ctx)
	if err != nil {
		return err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(outline(before)),
		B:        difflib.SplitLines(outline(after)),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	})
	if err != nil {
		return errors.Wrap(err, "diffing outlines")
	}
	if diff == "" {
		fmt.Fprintln(cli.out, "no change")
		return nil
	}
	fmt.Fprint(cli.out, diff)
	return nil
}

// outline renders one line per element of the merged form.
func outline(form customform.CustomForm) string {
	var b strings.Builder
	for _, el := range form.Elements() {
		var text string
		switch e := el.(type) {
		case *customform.Heading:
			text = e.Text
		case *customform.TextBlock:
			text = e.Text
		case *customform.Prompt:
			text = fmt.Sprintf("[%s] %s", e.Type, e.Text)
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", el.Position(), el.Kind(), text)
	}
	return b.String()
}
