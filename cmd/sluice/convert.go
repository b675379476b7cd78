package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sluice/internal/diagfmt"
	"sluice/internal/driver"
	"sluice/internal/streamify"
	"sluice/internal/trace"
)

var (
	convertVocab    string
	convertOutput   string
	convertUI       string
	convertJobs     int
	convertNoCache  bool
	convertTrace    string
	convertDiagJSON bool
)

func init() {
	convertCmd.Flags().StringVar(&convertVocab, "vocab", "", "legality vocabulary TOML file (default: all device ops)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "write converted module to this path (default: in place)")
	convertCmd.Flags().StringVar(&convertUI, "ui", "auto", "progress UI mode (auto|on|off)")
	convertCmd.Flags().IntVar(&convertJobs, "jobs", 0, "functions to convert concurrently (0 = GOMAXPROCS)")
	convertCmd.Flags().BoolVar(&convertNoCache, "no-cache", false, "skip the conversion artifact cache")
	convertCmd.Flags().StringVar(&convertTrace, "trace", "", "write rule-level trace events to this file")
	convertCmd.Flags().BoolVar(&convertDiagJSON, "json", false, "emit diagnostics as JSON")
}

var convertCmd = &cobra.Command{
	Use:   "convert <module.mp>",
	Short: "Rewrite a sequential device module for concurrent queue execution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, args[0])
	},
}

func runConvert(cmd *cobra.Command, path string) error {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	maxDiag, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	mode, err := readUIMode(convertUI)
	if err != nil {
		return err
	}

	m, err := loadModule(path)
	if err != nil {
		return err
	}

	vocab := streamify.DefaultVocabulary()
	if convertVocab != "" {
		vocab, err = streamify.LoadVocabulary(convertVocab)
		if err != nil {
			return err
		}
	}

	outPath := convertOutput
	if outPath == "" {
		outPath = path
	}

	var cache *driver.Cache
	var key driver.Digest
	if !convertNoCache {
		cache, err = driver.OpenCache("sluice")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "cache disabled: %v\n", err)
		} else {
			key, err = driver.HashConversion(m, vocab)
			if err != nil {
				return err
			}
			var payload driver.CachePayload
			hit, err := cache.Get(key, &payload)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "cache read: %v\n", err)
			} else if hit {
				if err := saveModule(outPath, payload.Module); err != nil {
					return err
				}
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "cached: %d converted, %d failed\n",
						len(payload.Changed), len(payload.Failed))
				}
				return nil
			}
		}
	}

	opts := driver.Options{
		Jobs:           convertJobs,
		MaxDiagnostics: maxDiag,
	}
	if convertTrace != "" {
		tf, err := os.Create(convertTrace)
		if err != nil {
			return fmt.Errorf("open trace output: %w", err)
		}
		tracer := trace.NewWriter(tf)
		// Closing the tracer closes the underlying file.
		defer func() {
			if cerr := tracer.Close(); cerr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace close: %v\n", cerr)
			}
		}()
		opts.Tracer = tracer
	}

	var res *driver.Result
	if shouldUseTUI(mode) && !quiet {
		res, err = runConvertWithUI(cmd.Context(), "converting "+path, m, vocab.Target(), opts)
	} else {
		res, err = driver.ConvertModule(cmd.Context(), m, vocab.Target(), opts)
	}
	if err != nil {
		return err
	}

	reportDiagnostics(cmd, res, maxDiag)

	if err := saveModule(outPath, m); err != nil {
		return err
	}
	if cache != nil {
		payload := driver.CachePayload{Module: m, Changed: res.Changed}
		for name := range res.Failed {
			payload.Failed = append(payload.Failed, name)
		}
		if err := cache.Put(key, &payload); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "cache write: %v\n", err)
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%d converted, %d failed, %d unchanged\n",
			len(res.Changed), len(res.Failed), len(m.Funcs)-len(res.Changed)-len(res.Failed))
	}
	if timings {
		printTimings(cmd, res.Timing)
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d functions failed to convert", len(res.Failed))
	}
	return nil
}

func reportDiagnostics(cmd *cobra.Command, res *driver.Result, maxDiag int) {
	if res.Bag.Len() == 0 {
		return
	}
	out := cmd.ErrOrStderr()
	if convertDiagJSON {
		if err := diagfmt.JSON(out, res.Bag, diagfmt.JSONOpts{IncludeNotes: true, Max: maxDiag}); err != nil {
			fmt.Fprintf(out, "diagnostics: %v\n", err)
		}
		return
	}
	diagfmt.Pretty(out, res.Bag, diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		ShowNotes: true,
		Max:       maxDiag,
	})
}
