/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: answers.go
Description: Answers command implementation. Shows what the persistent answer store
holds, either a count per key or every answer stored under one key.
*/

package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/kleascm/automator/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ListAnswers prints the stored membership answers
func ListAnswers(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	answers, err := store.Open(ctx, viper.GetString("answers.db"))
	if err != nil {
		return err
	}
	defer answers.Close()

	out := cmd.OutOrStdout()
	if key := viper.GetString("answers.key"); key != "" {
		entries, err := answers.Entries(ctx, key)
		if err != nil {
			return err
		}
		tbl := newListTable("#", "word", "member")
		for i, e := range entries {
			member := "no"
			if e.Member {
				member = "yes"
			}
			tbl.Row(fmt.Sprint(i+1), e.Word.String(), member)
		}
		fmt.Fprintf(out, "💾 %s answers stored for %s\n", humanize.Comma(int64(len(entries))), key)
		fmt.Fprintln(out, tbl.Render())
		return nil
	}

	counts, err := answers.Targets(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tbl := newListTable("key", "answers")
	for _, key := range keys {
		tbl.Row(key, humanize.Comma(int64(counts[key])))
	}
	fmt.Fprintln(out, "💾 Stored answers")
	fmt.Fprintln(out, tbl.Render())
	return nil
}
