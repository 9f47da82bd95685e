package main

import (
	"fmt"

	"github.com/katalvlaran/pacp/canon"
	"github.com/katalvlaran/pacp/store"
	"github.com/spf13/cobra"
)

func runList(cmd *cobra.Command, f *listFlags) error {
	cfg := store.DefaultConfig(f.db)
	cfg.GCInterval = 0
	db, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	recs, err := store.NewResultStore(db, canon.Canonicalizer{}, nil).List(cmd.Context(), f.length)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, r := range recs {
		if _, err := fmt.Fprintln(out, r.Line()); err != nil {
			return err
		}
	}

	return nil
}
