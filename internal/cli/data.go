package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"smartfinance/internal/backend"
	"smartfinance/internal/log"
	"smartfinance/internal/storage"
)

func newExportCommand(rt *runtime) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored key to a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withStore(cmd, func(store storage.Store) error {
				doc, err := storage.Export(cmd.Context(), store)
				if err != nil {
					return err
				}
				w := rt.out
				if file != "" && file != "-" {
					f, err := os.Create(file)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(doc); err != nil {
					return err
				}
				rt.logger.InfoContext(cmd.Context(), "Exported store", "keys", len(doc), "file", file)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "output", "o", "", "destination file (default stdout)")
	return cmd
}

func newImportCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load keys from a JSON document written by export",
		Long: `Load keys from a JSON document written by export. Keys present in the
document overwrite the stored values; keys absent from it are kept. Use "-"
to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			var doc map[string]json.RawMessage
			if err := json.NewDecoder(r).Decode(&doc); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			return rt.withStore(cmd, func(store storage.Store) error {
				if err := storage.Import(cmd.Context(), store, doc); err != nil {
					return err
				}
				fmt.Fprintf(rt.out, "Imported %d keys\n", len(doc))
				return nil
			})
		},
	}
}

// withStore opens the configured store without loading application state,
// so a store holding corrupt values can still be exported or repaired.
func (rt *runtime) withStore(cmd *cobra.Command, fn func(storage.Store) error) error {
	bcfg, err := backend.FromAppConfig(rt.cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(rt.logger).CreateBackend(cmd.Context(), bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := res.Close(); cerr != nil {
			rt.logger.Error("Failed to close store", log.FieldError, cerr)
		}
	}()
	return fn(res.Store)
}
