package main

import (
	"fmt"
	"os"

	"github.com/de-tools/tag-atlas/pkg/runtime/terminal"
	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/de-tools/tag-atlas/pkg/services/inventory"
	awsinventory "github.com/de-tools/tag-atlas/pkg/services/inventory/aws"
	"github.com/de-tools/tag-atlas/pkg/services/reconcile"
	"github.com/de-tools/tag-atlas/pkg/services/reconcile/awsce"
	azurebilling "github.com/de-tools/tag-atlas/pkg/services/reconcile/azure"
)

func main() {
	sources := inventory.NewRegistry()
	_ = sources.Register("aws", awsinventory.SourceFactory)

	billing := reconcile.NewRegistry()
	_ = billing.Register("aws", awsce.SourceFactory)
	_ = billing.Register("azure", azurebilling.SourceFactory)

	cli := terminal.NewCLI(terminal.Options{
		Engine:  compliance.NewEngine(compliance.Options{}),
		Sources: sources,
		Billing: billing,
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
