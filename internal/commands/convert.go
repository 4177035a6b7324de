package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cleared-dev/billconv/internal/ledger"
	"github.com/cleared-dev/billconv/internal/model"
	"github.com/cleared-dev/billconv/internal/pipeline"
)

func newConvertCommand(v *viper.Viper) *cobra.Command {
	var dir string
	var archive, noSource bool

	cmd := &cobra.Command{
		Use:   "convert [provider=]file ...",
		Short: "Convert bill exports into one ledger CSV",
		Long: `Convert reads Alipay and WeChat Pay CSV exports, merges them newest first,
validates the result and writes a single ledger CSV.

Each argument is a file, optionally prefixed with its provider
(alipay/zhifubao or wechat/weixin). Files without a prefix, and every
CSV file found with --dir, are detected from their banner text or name.
Nothing is written if any row fails to convert or any record is invalid.`,
		Example: `  billconv convert -u yang alipay=alipay_record.csv wechat=wechat.csv
  billconv convert -u han --dir ~/Downloads/bills --archive -o march.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			member, err := model.ParseMember(v.GetString("user"))
			if err != nil {
				return err
			}

			var inputs []pipeline.Input
			for _, arg := range args {
				in, err := pipeline.ParseInput(arg)
				if err != nil {
					return err
				}
				inputs = append(inputs, in)
			}
			if dir != "" {
				found, err := pipeline.DirInputs(dir, v.GetString("output"))
				if err != nil {
					return err
				}
				inputs = append(inputs, found...)
			}

			reg, err := loadRegistry(v)
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				Member:  member,
				Output:  v.GetString("output"),
				Ledger:  ledger.Options{IncludeSource: !noSource},
				Archive: archive,
			}
			report, err := pipeline.NewService(reg).Run(cmd.Context(), inputs, opts)
			if report != nil {
				printReport(cmd.OutOrStdout(), report)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringP("user", "u", "", "household member whose exports these are (yang, han)")
	f.StringP("output", "o", "output.csv", "ledger file to write")
	f.StringVar(&dir, "dir", "", "also convert every CSV file in this directory")
	f.BoolVar(&archive, "archive", false, "move inputs into processed/ after a successful write")
	f.BoolVar(&noSource, "no-source", false, "omit the "+ledger.SourceColumn+" column")

	_ = v.BindPFlag("user", f.Lookup("user"))
	_ = v.BindPFlag("output", f.Lookup("output"))

	return cmd
}

func printReport(w io.Writer, r *pipeline.Report) {
	for _, f := range r.Files {
		fmt.Fprintf(w, "%s %s: %d records, %d skipped, %d rejected\n",
			f.Provider.Label(), filepath.Base(f.Path), f.Records, f.Skipped, len(f.Rejected))
		for _, re := range f.Rejected {
			fmt.Fprintf(w, "  rejected: %v\n", re)
		}
		for _, n := range f.Notices {
			fmt.Fprintf(w, "  notice: %s\n", n)
		}
	}
	printSummary(w, r)

	switch {
	case r.Written:
		fmt.Fprintf(w, "Wrote %d records to %s\n", len(r.Records), r.Output)
		if r.Archived > 0 {
			fmt.Fprintf(w, "Archived %d input files\n", r.Archived)
		}
	case len(r.Files) > 0:
		fmt.Fprintf(w, "Nothing written to %s\n", r.Output)
	}
}

func printSummary(w io.Writer, r *pipeline.Report) {
	s := r.Summary
	fmt.Fprintf(w, "Total: %d", s.Total)
	for _, t := range model.TxTypes {
		fmt.Fprintf(w, ", %s %d", t, s.ByType[t])
	}
	fmt.Fprintln(w)

	if s.NeedsAttention() {
		fmt.Fprintf(w, "Needs attention: %d records\n", len(s.UnresolvedTransfers)+len(s.UnknownTypes))
	}
	for _, rec := range s.UnresolvedTransfers {
		fmt.Fprintf(w, "  transfer needs target account: %s %s %s %s\n",
			rec.Date, rec.Amount.StringFixed(2), rec.Account1, rec.Remark)
	}
	for _, rec := range s.UnknownTypes {
		fmt.Fprintf(w, "  unknown type %q: %s %s %s\n", rec.Type, rec.Date, rec.Amount.StringFixed(2), rec.Remark)
	}
	for _, ve := range r.Invalid {
		fmt.Fprintf(w, "  invalid: %v\n", ve)
	}
}
