// Command gedcom is the CLI tool for the rootsline GEDCOM toolkit.
// It validates, browses, anonymizes and generates GEDCOM genealogical
// data files.
package main

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/rootsline/gedcom/core/anonymize"
	"github.com/rootsline/gedcom/core/browse"
	"github.com/rootsline/gedcom/core/gedcom"
	"github.com/rootsline/gedcom/core/gen"
	"github.com/rootsline/gedcom/internal/config"
	"github.com/rootsline/gedcom/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for gedcom.
var CLI struct {
	// Global flags
	Config    string `name:"config" help:"Path to TOML config file" type:"path"`
	Relaxed   bool   `name:"relaxed" help:"Relaxed validation for older format revisions"`
	LogLevel  string `name:"log-level" help:"Log level (debug|info|warn|error)"`
	LogFormat string `name:"log-format" help:"Log format (text|json)"`

	Validate  ValidateCmd  `cmd:"" help:"Validate a GEDCOM file against its format revision"`
	List      ListGroup    `cmd:"" help:"List records (individuals, families)"`
	Show      ShowGroup    `cmd:"" help:"Show record details"`
	Anonymize AnonymizeCmd `cmd:"" help:"Rewrite personal data with consistent fake replacements"`
	Generate  GenerateCmd  `cmd:"" help:"Generate a synthetic GEDCOM test file"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// ListGroup contains record listing operations.
type ListGroup struct {
	Individuals ListIndividualsCmd `cmd:"" help:"List all individuals"`
	Families    ListFamiliesCmd    `cmd:"" help:"List all families"`
}

// ShowGroup contains record detail operations.
type ShowGroup struct {
	Individual ShowIndividualCmd `cmd:"" help:"Show details for one individual by cross-reference id"`
}

// settings carries the resolved configuration into command Run methods.
type settings struct {
	mode      gedcom.Mode
	mappingDB string
}

// ValidateCmd validates a GEDCOM file.
type ValidateCmd struct {
	File string `arg:"" help:"Path to the GEDCOM file" type:"existingfile"`
}

func (c *ValidateCmd) Run(s *settings) error {
	doc, err := gedcom.ParseFile(c.File, s.mode)
	if err != nil {
		fmt.Printf("✗ File %q is not a valid GEDCOM file (%s mode)\n", c.File, s.mode)
		fmt.Printf("  Error: %v\n", err)
		return errors.New("validation failed")
	}

	b := browse.New(doc)
	fmt.Printf("Parsed %q as GEDCOM %s (%s mode)\n", c.File, doc.Version, s.mode)
	fmt.Printf("  - Encoding: %s\n", doc.Charset)
	fmt.Printf("  - %d individuals\n", len(b.Individuals()))
	fmt.Printf("  - %d families\n", len(b.Families()))

	for _, d := range doc.Diagnostics {
		fmt.Printf("  %s\n", d)
	}
	if !doc.Valid() {
		fmt.Printf("✗ File %q parsed with %d errors, %d warnings\n",
			c.File, doc.ErrorCount(), doc.WarningCount())
		return errors.New("validation failed")
	}
	fmt.Printf("✓ File %q is a valid GEDCOM %s file\n", c.File, doc.Version)
	return nil
}

// ListIndividualsCmd lists all individuals in a file.
type ListIndividualsCmd struct {
	File string `arg:"" help:"Path to the GEDCOM file" type:"existingfile"`
}

func (c *ListIndividualsCmd) Run(s *settings) error {
	doc, err := gedcom.ParseFile(c.File, s.mode)
	if err != nil {
		return err
	}
	individuals := browse.New(doc).Individuals()
	if len(individuals) == 0 {
		fmt.Println("No individuals found in the file.")
		return nil
	}
	browse.SortByName(individuals)

	fmt.Printf("\nIndividuals (%d):\n", len(individuals))
	fmt.Println(divider)
	fmt.Printf("%-12s %-40s %-12s %-12s\n", "ID", "Name", "Birth", "Death")
	fmt.Println(divider)
	for _, ind := range individuals {
		fmt.Printf("%-12s %-40s %-12s %-12s\n", ind.XRef, ind.Name, ind.Birth, ind.Death)
	}
	return nil
}

// ListFamiliesCmd lists all families in a file.
type ListFamiliesCmd struct {
	File string `arg:"" help:"Path to the GEDCOM file" type:"existingfile"`
}

func (c *ListFamiliesCmd) Run(s *settings) error {
	doc, err := gedcom.ParseFile(c.File, s.mode)
	if err != nil {
		return err
	}
	families := browse.New(doc).Families()
	if len(families) == 0 {
		fmt.Println("No families found in the file.")
		return nil
	}

	fmt.Printf("\nFamilies (%d):\n", len(families))
	fmt.Println(divider)
	for _, fam := range families {
		fmt.Printf("%s: %s + %s\n", fam.XRef, orUnknown(fam.Husband), orUnknown(fam.Wife))
		for _, child := range fam.Children {
			fmt.Printf("    child: %s\n", child)
		}
	}
	return nil
}

// ShowIndividualCmd shows details for one individual.
type ShowIndividualCmd struct {
	File string `arg:"" help:"Path to the GEDCOM file" type:"existingfile"`
	XRef string `arg:"" help:"Cross-reference id, with or without @ delimiters"`
}

func (c *ShowIndividualCmd) Run(s *settings) error {
	doc, err := gedcom.ParseFile(c.File, s.mode)
	if err != nil {
		return err
	}
	detail, ok := browse.New(doc).Individual(c.XRef)
	if !ok {
		return fmt.Errorf("no individual found with id %s", c.XRef)
	}

	fmt.Println(divider)
	fmt.Printf("Individual: %s (%s)\n", detail.Name, detail.XRef)
	fmt.Println(divider)

	if len(detail.Events) > 0 {
		fmt.Println("\nEvents:")
		for _, ev := range detail.Events {
			fmt.Printf("  %-6s %-20s %s\n", ev.Kind, ev.Date, ev.Place)
		}
	}
	if len(detail.Attributes) > 0 {
		fmt.Println("\nAttributes:")
		for _, at := range detail.Attributes {
			fmt.Printf("  %-6s %s\n", at.Kind, at.Value)
		}
	}
	if len(detail.Spouses) > 0 {
		fmt.Println("\nSpouse families:")
		for _, sp := range detail.Spouses {
			fmt.Printf("  %s: %s (%s)\n", sp.FamilyXRef, orUnknown(sp.SpouseName), sp.SpouseXRef)
		}
	}
	if len(detail.ParentFamilies) > 0 {
		fmt.Println("\nParent families:")
		for _, pf := range detail.ParentFamilies {
			fmt.Printf("  %s:\n", pf.FamilyXRef)
			for _, p := range pf.Parents {
				fmt.Printf("    %-7s %s (%s)\n", p.Relation, orUnknown(p.Name), p.XRef)
			}
		}
	}
	if len(detail.Notes) > 0 {
		fmt.Println("\nNotes:")
		for _, n := range detail.Notes {
			fmt.Printf("  %s\n", n)
		}
	}
	if len(detail.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range detail.Sources {
			fmt.Printf("  %s %s\n", src.XRef, src.Page)
		}
	}
	return nil
}

// AnonymizeCmd rewrites personal data in a file.
type AnonymizeCmd struct {
	Input     string `arg:"" help:"Path to the input GEDCOM file" type:"existingfile"`
	Output    string `arg:"" help:"Path to write the anonymized file" type:"path"`
	Seed      int64  `help:"Random seed for reproducible replacements" default:"42"`
	MappingDB string `name:"mapping-db" help:"SQLite mapping store for cross-run consistency" type:"path"`
}

func (c *AnonymizeCmd) Run(s *settings) error {
	db := c.MappingDB
	if db == "" {
		db = s.mappingDB
	}
	a, err := anonymize.New(anonymize.Options{Seed: c.Seed, MappingDB: db})
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.AnonymizeFile(c.Input, c.Output)
	if err != nil {
		return err
	}
	fmt.Printf("Anonymized %q -> %q\n", c.Input, c.Output)
	fmt.Printf("  - %d lines, %d values replaced\n", stats.Lines, stats.Replaced)
	for cat, n := range stats.ByCategory {
		fmt.Printf("  - %s: %d\n", cat, n)
	}
	return nil
}

// GenerateCmd produces a synthetic GEDCOM test file.
type GenerateCmd struct {
	Output      string `arg:"" help:"Path to write the generated file" type:"path"`
	Individuals int    `help:"Number of individuals to generate" default:"25"`
	Seed        int64  `help:"Random seed for reproducible output" default:"42"`
}

func (c *GenerateCmd) Run(s *settings) error {
	g := gen.New(c.Seed)
	if err := g.WriteFile(c.Output, gen.Options{Individuals: c.Individuals, Seed: c.Seed}); err != nil {
		return err
	}
	fmt.Printf("Generated %q with %d individuals (seed %d)\n", c.Output, c.Individuals, c.Seed)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(s *settings) error {
	fmt.Printf("gedcom version %s\n", version)
	return nil
}

const divider = "--------------------------------------------------------------------------------"

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("gedcom"),
		kong.Description("GEDCOM toolkit - validate, browse, anonymize and generate genealogical data files"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	cfg, err := config.Load(CLI.Config)
	ctx.FatalIfErrorf(err)
	if CLI.LogLevel != "" {
		cfg.LogLevel = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		cfg.LogFormat = CLI.LogFormat
	}
	logging.InitLogger(logging.ParseLevel(cfg.LogLevel), logging.ParseFormat(cfg.LogFormat))

	s := &settings{mode: gedcom.Strict, mappingDB: cfg.MappingDB}
	if CLI.Relaxed || cfg.Relaxed {
		s.mode = gedcom.Relaxed
	}

	err = ctx.Run(s)
	ctx.FatalIfErrorf(err)
}
