package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
)

// ListCmd lists registered dialogs
type ListCmd struct {
	Locale string `short:"l" help:"Locale of the titles."`
	Format string `default:"table" enum:"table,json" help:"Output format (table, json)"`
}

type listEntry struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Module     string   `json:"module"`
	ModuleType string   `json:"module_type"`
	Includes   []string `json:"includes"`
	Params     []string `json:"params,omitempty"`
}

// Run executes the list command
func (c *ListCmd) Run(cli *CLI, rt *runtime) error {
	a, err := cli.bootstrap(rt, false)
	if err != nil {
		return err
	}
	locale := a.catalog.Match(c.Locale)

	registry := a.orch.Dialogs()
	var entries []listEntry
	for _, name := range registry.List() {
		d, err := registry.Get(name)
		if err != nil {
			return err
		}
		entry := listEntry{
			Name:       d.Name(),
			Title:      d.Title(locale, a.catalog),
			Module:     d.ModuleName(),
			ModuleType: string(d.ModuleType()),
			Includes:   d.Includes(),
		}
		for _, p := range d.Params() {
			entry.Params = append(entry.Params, p.Name)
		}
		entries = append(entries, entry)
	}

	switch c.Format {
	case "json":
		enc := json.NewEncoder(rt.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "table":
		w := tabwriter.NewWriter(rt.stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTITLE\tMODULE\tTYPE\tINCLUDES")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", e.Name, e.Title, e.Module, e.ModuleType, len(e.Includes))
		}
		return w.Flush()
	default:
		return fmt.Errorf("invalid format: %s", c.Format)
	}
}
